package dto

// VideoListRequest carries the cursor pagination parameters of GET /api/videos.
type VideoListRequest struct {
	Cursor   int64 `form:"cursor"`
	MaxCount int   `form:"max_count"`
}

// VideoQueryRequest is the body of POST /api/videos/query. The platform caps
// a single query at 20 ids.
type VideoQueryRequest struct {
	VideoIDs []string `json:"video_ids" binding:"required,min=1,max=20"`
}
