package dto

import "mime/multipart"

// VideoInitRequest is the body of POST /api/post/init (direct video post).
type VideoInitRequest struct {
	Title              string `json:"title"`
	PrivacyLevel       string `json:"privacy_level"`
	DisableDuet        bool   `json:"disable_duet"`
	DisableStitch      bool   `json:"disable_stitch"`
	DisableComment     bool   `json:"disable_comment"`
	BrandContentToggle bool   `json:"brand_content_toggle"`
	BrandOrganicToggle bool   `json:"brand_organic_toggle"`
	VideoSize          int64  `json:"video_size" binding:"required,gt=0"`
}

// DraftInitRequest is the body of POST /api/post/draft. Drafts go to the
// creator's inbox, so no title or privacy level is needed.
type DraftInitRequest struct {
	VideoSize int64 `json:"video_size" binding:"required,gt=0"`
}

// CarouselRequest is the body of POST /api/post/carousel. PhotoImages must
// hold 2-35 staged URLs; image-count bounds are checked before any network
// call is made.
type CarouselRequest struct {
	PhotoImages        []string `json:"photo_images"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	PrivacyLevel       string   `json:"privacy_level"`
	DisableComment     bool     `json:"disable_comment"`
	AutoAddMusic       *bool    `json:"auto_add_music"`
	BrandContentToggle bool     `json:"brand_content_toggle"`
	PhotoCoverIndex    int      `json:"photo_cover_index"`
	PostMode           string   `json:"post_mode"`
}

// VideoPublishForm is the multipart form of POST /api/post/video, the
// one-shot endpoint that runs the whole init/upload/poll lifecycle
// server-side.
type VideoPublishForm struct {
	Title              string                `form:"title"`
	PrivacyLevel       string                `form:"privacy_level"`
	DisableDuet        bool                  `form:"disable_duet"`
	DisableStitch      bool                  `form:"disable_stitch"`
	DisableComment     bool                  `form:"disable_comment"`
	BrandContentToggle bool                  `form:"brand_content_toggle"`
	Draft              bool                  `form:"draft"`
	File               *multipart.FileHeader `form:"file" binding:"required"`
}

// PhotoPublishRequest is the body of POST /api/post/photos, the one-shot
// carousel endpoint (init + poll).
type PhotoPublishRequest struct {
	CarouselRequest
}

// PublishResultResponse reports the terminal outcome of an orchestrated job.
type PublishResultResponse struct {
	PublishID  string `json:"publish_id"`
	State      string `json:"state"`
	Message    string `json:"message"`
	Status     string `json:"status,omitempty"`
	FailReason string `json:"fail_reason,omitempty"`
}
