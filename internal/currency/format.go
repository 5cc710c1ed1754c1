package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var kztPrinter = message.NewPrinter(language.Russian)

// FormatKZT renders a price the way the Kazakh Russian locale does,
// for example "1 234,50 ₸".
func FormatKZT(price float64) string {
	return kztPrinter.Sprintf("%.2f ₸", price)
}
