package metadata

import "strings"

// Image size names understood by the IGDB image CDN.
const (
	SizeThumb    = "t_thumb"
	SizeCoverBig = "t_cover_big"
)

// NoCoverURL is the placeholder image IGDB serves for games without a cover.
const NoCoverURL = "https://images.igdb.com/igdb/image/upload/t_cover_big/nocover.jpg"

// ImageURL rewrites an IGDB image URL to the requested size. IGDB returns
// protocol-relative thumbnails such as //images.igdb.com/.../t_thumb/abc.jpg.
func ImageURL(raw, size string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	if size != "" && size != SizeThumb {
		url = strings.Replace(url, SizeThumb, size, 1)
	}
	return url
}
