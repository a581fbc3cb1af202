package jellyfin

import (
	"fmt"
	"net/url"
	"strconv"
)

// Image types understood by the server.
const (
	ImagePrimary  = "Primary"
	ImageBackdrop = "Backdrop"
	ImageThumb    = "Thumb"
	ImageLogo     = "Logo"
)

// ImagesAPI builds URLs for server-hosted artwork
type ImagesAPI struct {
	client *Client
}

// URL returns the artwork URL for an item, or "" when the item carries no
// tag for that image type. The tag pins the URL to one upload so cached
// copies stay valid after artwork changes.
func (im *ImagesAPI) URL(itemID, imageType, tag string, maxWidth int) string {
	if itemID == "" || tag == "" {
		return ""
	}

	query := url.Values{}
	query.Set("tag", tag)
	query.Set("quality", "90")
	if maxWidth > 0 {
		query.Set("maxWidth", strconv.Itoa(maxWidth))
	}

	path := fmt.Sprintf("/Items/%s/Images/%s", itemID, imageType)
	return im.client.serverURL(path) + "?" + query.Encode()
}

// Primary returns the poster URL for an item, "" when it has none.
func (im *ImagesAPI) Primary(item *BaseItem, maxWidth int) string {
	if item == nil {
		return ""
	}
	return im.URL(item.ID, ImagePrimary, item.PrimaryImageTag(), maxWidth)
}

// Backdrop returns the first backdrop URL for an item, "" when it has none.
func (im *ImagesAPI) Backdrop(item *BaseItem, maxWidth int) string {
	if item == nil {
		return ""
	}
	return im.URL(item.ID, ImageBackdrop, item.FirstBackdropTag(), maxWidth)
}
