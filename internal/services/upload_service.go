package services

import (
	"context"
	"log"
	"path/filepath"
	"sync"

	"github.com/triplog/server/internal/models"
	"github.com/triplog/server/internal/observability"
)

// UploadRequest describes one incoming upload, simple or chunked. For a
// simple upload PartIndex is -1 and Size is the actual payload size; for a
// chunked upload PartIndex/TotalParts come from the form fields and Size is
// the declared total file size.
type UploadRequest struct {
	StepID     string
	UUID       string
	Filename   string
	SourcePath string
	Size       int64
	PartIndex  int
	TotalParts int
}

// Chunked reports whether this request is one part of a chunked upload
func (r UploadRequest) Chunked() bool {
	return r.PartIndex >= 0
}

// UploadService orchestrates the upload pipeline: size validation, file
// placement, chunk combination, thumbnail generation and metadata
// extraction. Store-chunk and combine for the same session are serialized
// by a per-session lock so completion detection stays reliable under
// concurrent, out-of-order chunk arrival.
type UploadService struct {
	storage    *StorageService
	thumbnails *ThumbnailService
	exif       *EXIFService
	events     *EventHub
	metrics    *observability.PipelineMetrics
	maxSize    int64

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes store-chunk, combine and delete for one upload
// session. refs counts holders and waiters; the entry leaves the map only
// when the last of them releases, so every request for a key always sees
// the same mutex.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewUploadService creates a new UploadService. events and metrics may be
// nil when those concerns are disabled.
func NewUploadService(
	storage *StorageService,
	thumbnails *ThumbnailService,
	exif *EXIFService,
	events *EventHub,
	metrics *observability.PipelineMetrics,
	maxFileSizeBytes int64,
) *UploadService {
	return &UploadService{
		storage:    storage,
		thumbnails: thumbnails,
		exif:       exif,
		events:     events,
		metrics:    metrics,
		maxSize:    maxFileSizeBytes,
		locks:      make(map[string]*sessionLock),
	}
}

// SizeExceeded reports whether a declared size hits the configured limit;
// a limit of 0 means unlimited
func (s *UploadService) SizeExceeded(size int64) bool {
	return s.maxSize > 0 && size >= s.maxSize
}

// Process runs one upload request through the pipeline and always returns a
// well-formed response, whatever fails along the way.
func (s *UploadService) Process(ctx context.Context, req UploadRequest) *models.UploadResponse {
	resp := models.NewUploadResponse()

	if s.SizeExceeded(req.Size) {
		s.record(ctx, "rejected_too_big")
		return resp.FailTooBig()
	}

	if req.Chunked() {
		return s.processChunk(ctx, req, resp)
	}
	return s.processSimple(ctx, req, resp)
}

func (s *UploadService) processSimple(ctx context.Context, req UploadRequest, resp *models.UploadResponse) *models.UploadResponse {
	sessionDir, err := s.storage.SessionDir(req.StepID, req.UUID)
	if err != nil {
		log.Printf("Problem copying the file: %v", err)
		s.record(ctx, "failed")
		return resp.Fail("Problem copying the file!")
	}

	photoPath, thumbPath, err := s.storage.PhotoPath(req.StepID, req.UUID, req.Filename)
	if err != nil {
		log.Printf("Problem copying the file: %v", err)
		s.record(ctx, "failed")
		return resp.Fail("Problem copying the file!")
	}

	if err := s.storage.MoveFile(sessionDir, req.SourcePath, photoPath); err != nil {
		log.Printf("Problem copying the file: %v", err)
		s.record(ctx, "failed")
		return resp.Fail("Problem copying the file!")
	}

	return s.finish(ctx, req, resp, photoPath, thumbPath)
}

func (s *UploadService) processChunk(ctx context.Context, req UploadRequest, resp *models.UploadResponse) *models.UploadResponse {
	key := req.StepID + "/" + req.UUID
	lock := s.acquireLock(key)
	defer s.releaseLock(key, lock)

	chunkDir, err := s.storage.ChunkDir(req.StepID, req.UUID)
	if err != nil {
		log.Printf("Problem storing the chunk: %v", err)
		s.record(ctx, "failed")
		return resp.Fail("Problem storing the chunk!")
	}

	chunkName := ChunkFilename(req.PartIndex, req.TotalParts)
	destination := filepath.Join(chunkDir, chunkName)

	if err := s.storage.MoveFile(chunkDir, req.SourcePath, destination); err != nil {
		log.Printf("Problem storing the chunk: %v", err)
		s.record(ctx, "failed")
		return resp.Fail("Problem storing the chunk!")
	}
	s.recordChunk(ctx)

	// Intermediate parts acknowledge receipt only. Metadata cannot be read
	// from a partial file, so date and GPS stay absent until the last part.
	if req.PartIndex < req.TotalParts-1 {
		resp.Success = true
		resp.UUID = req.UUID
		return resp
	}

	photoPath, thumbPath, err := s.storage.PhotoPath(req.StepID, req.UUID, req.Filename)
	if err != nil {
		log.Printf("Problem combining the chunks: %v", err)
		s.record(ctx, "failed")
		return resp.Fail("Problem combining the chunks!")
	}

	if err := CombineChunks(chunkDir, photoPath); err != nil {
		log.Printf("Problem combining the chunks: %v", err)
		s.record(ctx, "failed")
		return resp.Fail("Problem combining the chunks!")
	}

	return s.finish(ctx, req, resp, photoPath, thumbPath)
}

// finish runs the post-placement stages in order: thumbnail, metadata,
// response. Thumbnail and metadata failures never fail the upload.
func (s *UploadService) finish(ctx context.Context, req UploadRequest, resp *models.UploadResponse, photoPath, thumbPath string) *models.UploadResponse {
	if err := s.thumbnails.Generate(photoPath, thumbPath); err != nil {
		log.Printf("Problem generating file miniature: %v", err)
	}

	md := s.exif.Extract(photoPath)
	if md.Date != nil {
		resp.Date = md.Date.Unix()
	}
	if md.Latitude != nil {
		resp.GPSLatitude = *md.Latitude
	}
	if md.Longitude != nil {
		resp.GPSLongitude = *md.Longitude
	}

	resp.Success = true
	resp.UUID = req.UUID

	s.record(ctx, "stored")
	if s.events != nil {
		s.events.Broadcast(PhotoEvent{
			Type:   EventPhotoUploaded,
			StepID: req.StepID,
			UUID:   req.UUID,
			Name:   req.Filename,
		})
	}

	return resp
}

// DeleteSession removes one upload session's subtree. The session lock is
// held so a delete cannot race an in-flight chunk write.
func (s *UploadService) DeleteSession(stepID, uuid string) error {
	key := stepID + "/" + uuid
	lock := s.acquireLock(key)
	defer s.releaseLock(key, lock)

	err := s.storage.DeleteSession(stepID, uuid)

	if err == nil && s.events != nil {
		s.events.Broadcast(PhotoEvent{Type: EventPhotoDeleted, StepID: stepID, UUID: uuid})
	}
	return err
}

// DeleteStep removes a whole step subtree with every session under it
func (s *UploadService) DeleteStep(stepID string) error {
	err := s.storage.DeleteStep(stepID)
	if err == nil && s.events != nil {
		s.events.Broadcast(PhotoEvent{Type: EventStepDeleted, StepID: stepID})
	}
	return err
}

// acquireLock registers as a holder of the session's mutex before taking
// it, so the entry cannot be evicted out from under a waiter
func (s *UploadService) acquireLock(key string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sessionLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

// releaseLock unlocks the session mutex and drops the map entry once the
// last holder is gone
func (s *UploadService) releaseLock(key string, lock *sessionLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, key)
	}
	s.mu.Unlock()
}

func (s *UploadService) record(ctx context.Context, result string) {
	if s.metrics != nil {
		s.metrics.RecordUpload(ctx, result)
	}
}

func (s *UploadService) recordChunk(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.RecordChunk(ctx)
	}
}
