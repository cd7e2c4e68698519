package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"tiktok-studio/domain/model"
	"tiktok-studio/domain/repository"
	"tiktok-studio/infrastructure/logger"
)

// JobState names the lifecycle phases of one publish job. Terminal states are
// StateComplete and StateFailed; a failed job restarts from scratch, there is
// no resume.
type JobState string

const (
	StateIdle         JobState = "IDLE"
	StateStagingMedia JobState = "STAGING_MEDIA"
	StateInitializing JobState = "INITIALIZING"
	StateUploading    JobState = "UPLOADING"
	StatePolling      JobState = "POLLING"
	StateComplete     JobState = "COMPLETE"
	StateFailed       JobState = "FAILED"
)

// PollOutcome is the terminal result of the polling tail. StillProcessing is
// deliberately distinct from Published: exhausting the poll budget does not
// mean the remote publish failed, so it is reported as an ambiguous success,
// never as an error.
type PollOutcome string

const (
	OutcomePublished       PollOutcome = "PUBLISHED"
	OutcomeSentToInbox     PollOutcome = "SENT_TO_INBOX"
	OutcomeFailed          PollOutcome = "FAILED"
	OutcomeStillProcessing PollOutcome = "STILL_PROCESSING"
)

// PublishResult reports how an orchestrated job ended.
type PublishResult struct {
	PublishID  string
	State      JobState
	Outcome    PollOutcome
	Message    string
	FailReason string
	LastStatus model.PostStatus
}

// ValidationError is a pre-flight rejection: no network call was made.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// ChunkRange is one byte range [Start, End) of a chunked upload.
type ChunkRange struct {
	Index int
	Start int64
	End   int64
}

// PlanChunks tiles [0, total) into contiguous non-overlapping ranges of
// chunkSize, last chunk possibly short. Order matters: the upload endpoint
// expects the ranges delivered sequentially.
func PlanChunks(total, chunkSize int64) []ChunkRange {
	if total <= 0 || chunkSize <= 0 {
		return nil
	}
	chunks := make([]ChunkRange, 0, (total+chunkSize-1)/chunkSize)
	for start := int64(0); start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		chunks = append(chunks, ChunkRange{Index: len(chunks), Start: start, End: end})
	}
	return chunks
}

// PublishConfig tunes the orchestrator's chunking and polling behavior.
type PublishConfig struct {
	ChunkSize        int64
	SingleChunkUnder int64
	PollMaxAttempts  int
	PollInterval     time.Duration
	CleanupDelay     time.Duration
}

// IPublishUsecase drives the post-publishing lifecycle: validate, init,
// chunked upload (video), status polling. The granular Init/Status methods
// back the step-by-step HTTP endpoints; PublishVideo and PublishCarousel run
// the whole lifecycle server-side.
type IPublishUsecase interface {
	InitVideo(ctx context.Context, accessToken string, opts *model.VideoPostOptions, videoSize int64) (*model.PostInit, error)
	InitDraft(ctx context.Context, accessToken string, videoSize int64) (*model.PostInit, error)
	InitCarousel(ctx context.Context, accessToken string, opts *model.PhotoPostOptions) (*model.PostInit, error)
	Status(ctx context.Context, accessToken, publishID string) (*model.PostStatusInfo, error)

	PublishVideo(ctx context.Context, accessToken string, opts *model.VideoPostOptions, draft bool, media io.Reader, size int64, contentType string, progress func(string)) (*PublishResult, error)
	PublishCarousel(ctx context.Context, accessToken string, opts *model.PhotoPostOptions, progress func(string)) (*PublishResult, error)
}

type publishUsecase struct {
	tiktok repository.ITikTok
	blobs  repository.IBlobStore
	cfg    PublishConfig
}

// NewPublishUsecase wires the orchestrator. blobs may be nil when no staging
// store is configured; delayed carousel cleanup is then skipped.
func NewPublishUsecase(tiktok repository.ITikTok, blobs repository.IBlobStore, cfg PublishConfig) IPublishUsecase {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 10_000_000
	}
	if cfg.SingleChunkUnder == 0 {
		cfg.SingleChunkUnder = 5_000_000
	}
	if cfg.PollMaxAttempts == 0 {
		cfg.PollMaxAttempts = 30
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.CleanupDelay == 0 {
		cfg.CleanupDelay = time.Minute
	}
	return &publishUsecase{tiktok: tiktok, blobs: blobs, cfg: cfg}
}

// chunkSizeFor picks the declared chunk size: whole file for small uploads,
// fixed 10 MB otherwise.
func (u *publishUsecase) chunkSizeFor(total int64) int64 {
	if total < u.cfg.SingleChunkUnder {
		return total
	}
	return u.cfg.ChunkSize
}

// InitVideo validates the post options and initializes a direct video post.
func (u *publishUsecase) InitVideo(ctx context.Context, accessToken string, opts *model.VideoPostOptions, videoSize int64) (*model.PostInit, error) {
	if videoSize <= 0 {
		return nil, ValidationError("video_size is required and must be a number")
	}
	if strings.TrimSpace(opts.Title) == "" {
		return nil, ValidationError("Title is required")
	}
	if opts.PrivacyLevel == "" {
		return nil, ValidationError("Privacy level is required")
	}
	return u.tiktok.InitVideoPost(ctx, accessToken, opts, videoSize, u.chunkSizeFor(videoSize))
}

// InitDraft initializes an inbox upload. Drafts need no title or privacy
// level; the creator finishes the post in the TikTok app.
func (u *publishUsecase) InitDraft(ctx context.Context, accessToken string, videoSize int64) (*model.PostInit, error) {
	if videoSize <= 0 {
		return nil, ValidationError("video_size is required and must be a number")
	}
	return u.tiktok.InitDraftVideoPost(ctx, accessToken, videoSize, u.chunkSizeFor(videoSize))
}

// InitCarousel validates image count bounds before any network call, then
// initializes the photo post and schedules delayed cleanup of the staged
// images (the platform pulls them, we don't need them afterwards).
func (u *publishUsecase) InitCarousel(ctx context.Context, accessToken string, opts *model.PhotoPostOptions) (*model.PostInit, error) {
	if len(opts.PhotoImages) < 2 {
		return nil, ValidationError("At least 2 images are required for a carousel")
	}
	if len(opts.PhotoImages) > 35 {
		return nil, ValidationError("Maximum 35 images allowed")
	}
	if opts.PostMode != "MEDIA_UPLOAD" {
		opts.PostMode = "DIRECT_POST"
	}
	if opts.PrivacyLevel == "" {
		opts.PrivacyLevel = model.PrivacySelfOnly
	}
	init, err := u.tiktok.InitPhotoPost(ctx, accessToken, opts)
	if err != nil {
		return nil, err
	}
	if u.blobs != nil {
		u.blobs.ScheduleDelete(opts.PhotoImages, u.cfg.CleanupDelay)
	}
	return init, nil
}

// Status fetches the current processing status for a publish id.
func (u *publishUsecase) Status(ctx context.Context, accessToken, publishID string) (*model.PostStatusInfo, error) {
	if publishID == "" {
		return nil, ValidationError("publish_id is required")
	}
	return u.tiktok.GetPostStatus(ctx, accessToken, publishID)
}

// PublishVideo runs the full video lifecycle: init, sequential chunk upload,
// status polling. The chunk ranges tile the file exactly and are uploaded in
// order; the upload endpoint rejects gaps, overlaps and out-of-order ranges.
func (u *publishUsecase) PublishVideo(ctx context.Context, accessToken string, opts *model.VideoPostOptions, draft bool, media io.Reader, size int64, contentType string, progress func(string)) (*PublishResult, error) {
	var (
		init *model.PostInit
		err  error
	)
	report(progress, "Initializing upload...")
	if draft {
		init, err = u.InitDraft(ctx, accessToken, size)
	} else {
		init, err = u.InitVideo(ctx, accessToken, opts, size)
	}
	if err != nil {
		return nil, err
	}

	if init.UploadURL != "" {
		report(progress, "Uploading video...")
		chunks := PlanChunks(size, u.chunkSizeFor(size))
		for _, ch := range chunks {
			body := io.LimitReader(media, ch.End-ch.Start)
			if err := u.tiktok.UploadChunk(ctx, init.UploadURL, contentType, ch.Start, ch.End, size, body); err != nil {
				logger.GetLogger().WithField("error", err).WithField("chunk", ch.Index).Error("Chunk upload aborted job")
				return &PublishResult{
					PublishID: init.PublishID,
					State:     StateFailed,
					Outcome:   OutcomeFailed,
					Message:   fmt.Sprintf("Upload failed at chunk %d/%d", ch.Index+1, len(chunks)),
				}, nil
			}
		}
	}

	mode := model.ModeVideoInit
	if draft {
		mode = model.ModeVideoDraft
	}
	return u.poll(ctx, accessToken, init.PublishID, mode, progress), nil
}

// PublishCarousel runs the photo path: staged-URL init then status polling.
// There is no chunked upload; the platform fetches the images itself.
func (u *publishUsecase) PublishCarousel(ctx context.Context, accessToken string, opts *model.PhotoPostOptions, progress func(string)) (*PublishResult, error) {
	report(progress, "Publishing carousel...")
	init, err := u.InitCarousel(ctx, accessToken, opts)
	if err != nil {
		return nil, err
	}
	return u.poll(ctx, accessToken, init.PublishID, model.ModePhotoCarousel, progress), nil
}

// poll is the shared polling tail. It sleeps, queries, and classifies until a
// terminal status or the attempt budget runs out. Per-attempt transport
// errors are skipped (the attempt still counts). Budget exhaustion yields
// OutcomeStillProcessing, not a failure: the remote job may well finish after
// we stop watching.
func (u *publishUsecase) poll(ctx context.Context, accessToken, publishID string, mode model.PublishMode, progress func(string)) *PublishResult {
	result := &PublishResult{PublishID: publishID, State: StatePolling}
	for attempt := 1; attempt <= u.cfg.PollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			result.State = StateComplete
			result.Outcome = OutcomeStillProcessing
			result.Message = stillProcessingMessage
			return result
		case <-time.After(u.cfg.PollInterval):
		}

		info, err := u.tiktok.GetPostStatus(ctx, accessToken, publishID)
		if err != nil {
			continue
		}
		result.LastStatus = info.Status

		switch {
		case info.Status == model.StatusFailed:
			result.State = StateFailed
			result.Outcome = OutcomeFailed
			result.FailReason = info.FailReason
			result.Message = info.FailReason
			if result.Message == "" {
				result.Message = "Publishing failed"
			}
			return result
		case info.Status == model.StatusSendToUserInbox:
			result.State = StateComplete
			result.Outcome = OutcomeSentToInbox
			result.Message = inboxMessage(mode)
			return result
		case info.Status == model.StatusPublishComplete:
			result.State = StateComplete
			if mode == model.ModeVideoDraft {
				// Draft uploads land in the inbox even when the platform
				// reports plain completion.
				result.Outcome = OutcomeSentToInbox
				result.Message = inboxMessage(mode)
			} else {
				result.Outcome = OutcomePublished
				result.Message = publishedMessage(mode)
			}
			return result
		default:
			report(progress, fmt.Sprintf("Processing... (%s)", humanStatus(info.Status)))
		}
	}

	result.State = StateComplete
	result.Outcome = OutcomeStillProcessing
	result.Message = stillProcessingMessage
	return result
}

const stillProcessingMessage = "Processing is taking longer than expected. Check your TikTok app."

func publishedMessage(mode model.PublishMode) string {
	if mode == model.ModePhotoCarousel {
		return "Carousel published successfully!"
	}
	return "Video published successfully!"
}

func inboxMessage(mode model.PublishMode) string {
	switch mode {
	case model.ModePhotoCarousel:
		return "Carousel sent to your TikTok inbox! Open TikTok to edit and publish."
	case model.ModeVideoDraft:
		return "Draft sent to your TikTok inbox! Open TikTok to edit and publish."
	default:
		return "Video sent to your TikTok inbox! Open TikTok to edit and publish."
	}
}

func humanStatus(s model.PostStatus) string {
	return strings.ReplaceAll(strings.ToLower(string(s)), "_", " ")
}

func report(progress func(string), msg string) {
	if progress != nil {
		progress(msg)
	}
}
