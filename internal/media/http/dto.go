package http

type UploadResponse struct {
	ID           string  `json:"id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	ContentType  string  `json:"content_type"`
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
}
