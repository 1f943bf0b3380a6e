package uploads

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Size caps per upload type, matching the limits the store has always
// enforced: avatars are small, product shots may be larger.
const (
	MaxAvatarSize  = 5 << 20  // 5 MiB
	MaxProductSize = 16 << 20 // 16 MiB
)

var (
	ErrUnsupportedType = errors.New("only jpg, png, svg files are supported")
	ErrTooLarge        = errors.New("file exceeds the size limit")
)

// extByType doubles as the MIME allowlist.
var extByType = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/svg+xml": ".svg",
}

// File is an accepted multipart image ready to be pushed to the image host.
type File struct {
	Reader      multipart.File
	Filename    string
	ContentType string
	Ext         string
	Size        int64
}

func (f *File) Close() {
	if f != nil && f.Reader != nil {
		_ = f.Reader.Close()
	}
}

// Image extracts an optional image from the named multipart field.
// Returns (nil, nil) when the field is absent so callers can treat the
// upload as optional; rejects anything but PNG/JPEG/SVG or over maxSize.
func Image(c *gin.Context, field string, maxSize int64) (*File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size > maxSize {
		return nil, ErrTooLarge
	}
	contentType := fh.Header.Get("Content-Type")
	ext, ok := extByType[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &File{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: contentType,
		Ext:         ext,
		Size:        fh.Size,
	}, nil
}
