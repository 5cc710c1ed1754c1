package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shopdesk/internal/currency"
)

// RateSource provides the CNY→KZT exchange rate.
type RateSource interface {
	Rate(ctx context.Context) (currency.Quote, error)
	Refresh(ctx context.Context) (currency.Quote, error)
}

const staleRateWarning = "Не удалось получить курс валюты. Используется сохраненный курс."

func quoteView(q currency.Quote) gin.H {
	view := gin.H{
		"rate":      q.Rate,
		"updatedAt": q.UpdatedAt,
		"stale":     q.Stale,
	}
	if q.Stale {
		view["warning"] = staleRateWarning
	}
	return view
}

func respondRateError(c *gin.Context, route string, err error) {
	switch {
	case errors.Is(err, currency.ErrRefreshThrottled):
		respondWithError(c, http.StatusTooManyRequests, route, "rate refresh requested too often")
	case errors.Is(err, currency.ErrNoRate):
		respondWithError(c, http.StatusServiceUnavailable, route, "exchange rate unavailable")
	default:
		respondWithError(c, http.StatusInternalServerError, route, err.Error())
	}
}

func GetExchangeRate(rates RateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /currency/rate"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		q, err := rates.Rate(ctx)
		if err != nil {
			respondRateError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, quoteView(q))
	}
}

func RefreshExchangeRate(rates RateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /currency/refresh"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		q, err := rates.Refresh(ctx)
		if err != nil {
			respondRateError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, quoteView(q))
	}
}

// ConvertCurrency converts an amount between yuan and tenge in either
// direction using the current rate.
func ConvertCurrency(rates RateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /currency/convert"
		defer handlePanic(c, route)

		from := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("from", "CNY")))
		if from != "CNY" && from != "KZT" {
			respondValidation(c, map[string]string{"from": "must be one of: CNY, KZT"})
			return
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(c.Query("amount")), 64)
		if err != nil || amount < 0 {
			respondValidation(c, map[string]string{"amount": "must be a non-negative number"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		q, err := rates.Rate(ctx)
		if err != nil {
			respondRateError(c, route, err)
			return
		}

		view := quoteView(q)
		view["from"] = from
		view["amount"] = amount
		if from == "CNY" {
			tenge := currency.YuanToTenge(amount, q.Rate)
			view["to"] = "KZT"
			view["result"] = tenge
			view["formatted"] = currency.FormatKZT(tenge)
		} else {
			view["to"] = "CNY"
			view["result"] = currency.TengeToYuan(amount, q.Rate)
			view["formatted"] = currency.FormatKZT(amount)
		}
		c.JSON(http.StatusOK, view)
	}
}
