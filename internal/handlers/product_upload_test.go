package handlers

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func multipartImage(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func formFile(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	gin.SetMode(gin.TestMode)
	body, contentType := multipartImage(t, filename, data)

	req := httptest.NewRequest(http.MethodPost, "/products/1/image", body)
	req.Header.Set("Content-Type", contentType)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	file, err := c.FormFile("image")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	return file
}

func TestImageDataURIDetectsTypeFromContent(t *testing.T) {
	uri, err := imageDataURI(formFile(t, "photo.txt", pngHeader))
	if err != nil {
		t.Fatalf("imageDataURI returned error: %v", err)
	}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
	if uri != want {
		t.Fatalf("unexpected data URI %q", uri)
	}
}

func TestImageDataURIRejectsNonImages(t *testing.T) {
	_, err := imageDataURI(formFile(t, "photo.png", []byte("just some text pretending to be a picture")))
	if err == nil || !strings.Contains(err.Error(), "unsupported image type") {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}

func TestImageDataURIRejectsLargeFiles(t *testing.T) {
	big := append(append([]byte{}, pngHeader...), make([]byte, maxImageSize)...)
	_, err := imageDataURI(formFile(t, "big.png", big))
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size error, got %v", err)
	}
}
