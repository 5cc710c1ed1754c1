package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"shopdesk/internal/store"
)

const maxImageSize = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

/*
=======================
  IMAGE ENCODING
=======================
*/

// imageDataURI reads an uploaded image and returns it as a base64 data URI.
// The type is detected from the content, not from the file name.
func imageDataURI(file *multipart.FileHeader) (string, error) {
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}

	in, err := file.Open()
	if err != nil {
		return "", err
	}
	defer in.Close()

	data, err := io.ReadAll(io.LimitReader(in, maxImageSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", fmt.Errorf("unsupported image type: %s", mtype.String())
	}

	return "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

/*
=======================
  UPLOAD HANDLER
=======================
*/

func UploadProductImage(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/:id/image"
		defer handlePanic(c, route)

		id := c.Param("id")
		if _, ok := s.Product(id); !ok {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize+(1<<20))
		file, err := c.FormFile("image")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "image file required")
			return
		}

		uri, err := imageDataURI(file)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		updated, ok := s.SetProductImage(id, &uri)
		recordOperation("update_product", ok)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
