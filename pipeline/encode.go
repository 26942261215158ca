package pipeline

import (
	"encoding/base64"
	"fmt"

	"gocv.io/x/gocv"
	"golang.org/x/xerrors"
)

const JPEGMIMEType = "image/jpeg"

var ErrEmptyFrame = xerrors.New("empty frame")

// EncodeJPEG serializes img into a standalone JPEG buffer owned by Go memory.
func EncodeJPEG(img gocv.Mat, quality int) ([]byte, error) {
	if img.Empty() {
		return nil, ErrEmptyFrame
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// DecodeImage is the inverse of EncodeJPEG. The caller owns the returned Mat.
func DecodeImage(data []byte) (gocv.Mat, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("image decode: %w", err)
	}
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, ErrEmptyFrame
	}
	return img, nil
}

func EncodeBase64(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}
