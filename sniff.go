package ipx

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffMeta inspects the leading bytes of buf to fill in the parts of Meta
// a decoder can't be asked for up front: the format name and MIME type.
// Width and Height are filled in later, once the codec has actually
// decoded the image.
func sniffMeta(buf []byte) (meta Meta, isSVG bool) {
	mt := mimetype.Detect(buf)
	meta.MimeType = mt.String()
	meta.Type = strings.TrimPrefix(mt.Extension(), ".")
	if meta.Type == "" {
		meta.Type = "bin"
	}
	return meta, mt.Is("image/svg+xml")
}
