package objstore

import (
	"path"
	"strings"
)

// ResolveContentType decides the content type stored with an object from the
// file extension and the client-reported mime type, falling back to
// application/octet-stream when neither is recognized.
func ResolveContentType(filename, mimetype string) string {
	ext := extOf(filename)

	switch {
	case ext == ".mp4", strings.HasPrefix(mimetype, "video/"):
		return "video/mp4"
	case ext == ".jpg", ext == ".jpeg", mimetype == "image/jpeg":
		return "image/jpeg"
	case ext == ".png", mimetype == "image/png":
		return "image/png"
	case ext == ".gif", mimetype == "image/gif":
		return "image/gif"
	case mimetype != "":
		return mimetype
	default:
		return "application/octet-stream"
	}
}

func extOf(filename string) string {
	return strings.ToLower(path.Ext(filename))
}
