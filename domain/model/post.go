package model

// PostStatus is the remote processing state reported by
// /post/publish/status/fetch/ for a publish job.
type PostStatus string

const (
	StatusProcessingUpload   PostStatus = "PROCESSING_UPLOAD"
	StatusProcessingDownload PostStatus = "PROCESSING_DOWNLOAD"
	StatusSendToUserInbox    PostStatus = "SEND_TO_USER_INBOX"
	StatusPublishComplete    PostStatus = "PUBLISH_COMPLETE"
	StatusFailed             PostStatus = "FAILED"
)

// Terminal reports whether polling can stop at this status.
func (s PostStatus) Terminal() bool {
	switch s {
	case StatusPublishComplete, StatusSendToUserInbox, StatusFailed:
		return true
	}
	return false
}

// Success reports whether this is a successful terminal status.
// SEND_TO_USER_INBOX counts: the platform routed the post to the creator's
// in-app review inbox instead of publishing directly (unaudited API clients).
func (s PostStatus) Success() bool {
	return s == StatusPublishComplete || s == StatusSendToUserInbox
}

// PostInit is the data payload returned by the three post-init endpoints.
// UploadURL is only present for direct FILE_UPLOAD video posts.
type PostInit struct {
	PublishID string `json:"publish_id"`
	UploadURL string `json:"upload_url,omitempty"`
}

// PostStatusInfo is the data payload of a status fetch.
type PostStatusInfo struct {
	Status        PostStatus `json:"status"`
	FailReason    string     `json:"fail_reason,omitempty"`
	PublicPostIDs []string   `json:"publicaly_available_post_id,omitempty"`
	UploadedBytes int64      `json:"uploaded_bytes,omitempty"`
}

// PublishMode identifies which init variant a job used.
type PublishMode string

const (
	ModeVideoInit     PublishMode = "VIDEO_INIT"
	ModeVideoDraft    PublishMode = "VIDEO_DRAFT"
	ModePhotoCarousel PublishMode = "PHOTO_CAROUSEL"
)

// VideoPostOptions are the creator-chosen settings for a direct video post.
type VideoPostOptions struct {
	Title                 string       `json:"title"`
	PrivacyLevel          PrivacyLevel `json:"privacy_level"`
	DisableDuet           bool         `json:"disable_duet"`
	DisableStitch         bool         `json:"disable_stitch"`
	DisableComment        bool         `json:"disable_comment"`
	VideoCoverTimestampMs int64        `json:"video_cover_timestamp_ms"`
	BrandContentToggle    bool         `json:"brand_content_toggle"`
	BrandOrganicToggle    bool         `json:"brand_organic_toggle"`
}

// PhotoPostOptions are the settings for a photo-carousel post. PhotoImages
// holds 2-35 publicly fetchable URLs that TikTok pulls asynchronously.
type PhotoPostOptions struct {
	Title              string       `json:"title,omitempty"`
	Description        string       `json:"description,omitempty"`
	PrivacyLevel       PrivacyLevel `json:"privacy_level"`
	DisableComment     bool         `json:"disable_comment"`
	AutoAddMusic       bool         `json:"auto_add_music"`
	BrandContentToggle bool         `json:"brand_content_toggle"`
	BrandOrganicToggle bool         `json:"brand_organic_toggle"`
	PhotoCoverIndex    int          `json:"photo_cover_index"`
	PhotoImages        []string     `json:"photo_images"`
	PostMode           string       `json:"post_mode"` // DIRECT_POST or MEDIA_UPLOAD
}
