package api

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/khaledhikmat/vs-analyzer/pipeline"
	"github.com/khaledhikmat/vs-analyzer/service/lgr"
	"golang.org/x/xerrors"
)

const fileField = "file"

var (
	errNoFile       = xerrors.New("No file uploaded")
	errNoFileName   = xerrors.New("No file selected")
	errBadInterval  = xerrors.New("interval must be a positive number of seconds")
	errTooLarge     = xerrors.New("upload exceeds the size limit")
	errNotAnImage   = xerrors.New("upload is not a decodable image")
	errUploadFailed = xerrors.New("Failed to save upload")
)

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// formValue reads a multipart field and falls back to the query string.
func formValue(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}

func parseInterval(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || secs <= 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, errBadInterval
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// limitBody rejects declared oversized bodies up front and caps the rest
// while they stream in.
func (s *Server) limitBody(c *gin.Context) bool {
	limit := s.cfgSvc.GetMaxUploadBytes()
	if limit <= 0 {
		return true
	}

	if c.Request.ContentLength > limit {
		abortWithError(c, http.StatusRequestEntityTooLarge, errTooLarge)
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	return true
}

func uploadStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func (s *Server) handleAnalyze(c *gin.Context) {
	if !s.limitBody(c) {
		return
	}

	fileHeader, err := c.FormFile(fileField)
	if err != nil {
		status := uploadStatus(err)
		if status == http.StatusRequestEntityTooLarge {
			abortWithError(c, status, errTooLarge)
			return
		}
		abortWithError(c, status, errNoFile)
		return
	}

	if strings.TrimSpace(fileHeader.Filename) == "" {
		abortWithError(c, http.StatusBadRequest, errNoFileName)
		return
	}

	opts := pipeline.Options{Name: fileHeader.Filename}

	if raw := formValue(c, "mode"); raw != "" {
		m, err := model.ParseMode(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err)
			return
		}
		opts.Mode = m
	}

	opts.Interval, err = parseInterval(formValue(c, "interval"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		lgr.Logger.Error("error opening upload", slog.Any("error", err))
		abortWithError(c, http.StatusInternalServerError, errUploadFailed)
		return
	}
	defer src.Close()

	path, err := s.storageSvc.StoreFile(fileHeader.Filename, src)
	if err != nil {
		lgr.Logger.Error("error storing upload",
			slog.String("file", fileHeader.Filename),
			slog.Any("error", err),
		)
		abortWithError(c, http.StatusInternalServerError, errUploadFailed)
		return
	}

	defer func() {
		if err := s.storageSvc.RemoveFile(path); err != nil {
			lgr.Logger.Warn("error removing upload",
				slog.String("path", path),
				slog.Any("error", err),
			)
		}
	}()

	result := s.analyzer.Analyze(c.Request.Context(), path, opts)
	c.JSON(http.StatusOK, result)
}

// handleEncodeTest decodes an uploaded image, re-encodes it the way frames
// are sent to the oracle and decodes it again.
func (s *Server) handleEncodeTest(c *gin.Context) {
	if !s.limitBody(c) {
		return
	}

	fileHeader, err := c.FormFile(fileField)
	if err != nil {
		abortWithError(c, uploadStatus(err), errNoFile)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, errUploadFailed)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, errUploadFailed)
		return
	}

	img, err := pipeline.DecodeImage(data)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, errNotAnImage)
		return
	}
	defer img.Close()

	encoded, err := pipeline.EncodeJPEG(img, s.cfgSvc.GetJPEGQuality())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	decoded, err := pipeline.DecodeImage(encoded)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	defer decoded.Close()

	c.JSON(http.StatusOK, gin.H{
		"width":          img.Cols(),
		"height":         img.Rows(),
		"jpeg_bytes":     len(encoded),
		"decoded_width":  decoded.Cols(),
		"decoded_height": decoded.Rows(),
		"image":          pipeline.EncodeBase64(encoded),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
