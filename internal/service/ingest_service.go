package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tarekm28/Ou3a-Joura/internal/errs"
	"github.com/tarekm28/Ou3a-Joura/internal/models"
	"github.com/tarekm28/Ou3a-Joura/internal/pipeline/detect"
	"github.com/tarekm28/Ou3a-Joura/internal/pipeline/normalize"
	"github.com/tarekm28/Ou3a-Joura/internal/repository"
)

// IngestResult is the reply for a synchronous ingest.
type IngestResult struct {
	TripID         string `json:"trip_id"`
	DetectionCount int    `json:"detection_count"`
}

type ingestJob struct {
	doc    *models.TripUpload
	result chan ingestOutcome
}

type ingestOutcome struct {
	res *IngestResult
	err error
}

// IngestService runs the normalize-detect-persist pipeline for uploaded
// trips on a fixed worker pool. Processing is CPU-bound and independent per
// trip, so trips from different uploads run in parallel; the caller chooses
// whether to wait for the result or fire-and-forget.
type IngestService struct {
	trips      *repository.TripRepository
	detections *repository.DetectionRepository
	segments   *repository.SegmentRepository

	params  detect.Params
	timeout time.Duration

	jobs    chan *ingestJob
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
}

// NewIngestService creates the service and starts its workers.
func NewIngestService(
	trips *repository.TripRepository,
	detections *repository.DetectionRepository,
	segments *repository.SegmentRepository,
	workers int,
	timeout time.Duration,
	params detect.Params,
) *IngestService {
	if workers < 1 {
		workers = 1
	}
	s := &IngestService{
		trips:      trips,
		detections: detections,
		segments:   segments,
		params:     params,
		timeout:    timeout,
		jobs:       make(chan *ingestJob, workers*4),
		running:    true,
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

func (s *IngestService) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					outcome := ingestOutcome{err: fmt.Errorf("ingest worker panic: %v", r)}
					select {
					case job.result <- outcome:
					default:
					}
				}
			}()
			res, err := s.process(job.doc)
			job.result <- ingestOutcome{res: res, err: err}
		}()
	}
}

// Ingest runs the pipeline for one trip and waits for the result.
func (s *IngestService) Ingest(doc *models.TripUpload) (*IngestResult, error) {
	job, err := s.submit(doc)
	if err != nil {
		return nil, err
	}
	outcome := <-job.result
	return outcome.res, outcome.err
}

// IngestAsync validates and stores the raw trip, then queues detection to
// run after the upload reply. Failures past this point only surface in logs.
func (s *IngestService) IngestAsync(doc *models.TripUpload) error {
	if err := validateUpload(doc); err != nil {
		return err
	}
	if err := s.trips.Put(doc); err != nil {
		return err
	}

	job, err := s.submit(doc)
	if err != nil {
		return err
	}
	go func() {
		outcome := <-job.result
		if outcome.err != nil {
			logrus.WithError(outcome.err).WithField("trip_id", doc.TripID).Warn("async ingest failed")
		}
	}()
	return nil
}

func (s *IngestService) submit(doc *models.TripUpload) (*ingestJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return nil, errs.StoreUnavailable("ingest", errors.New("service shut down"))
	}

	job := &ingestJob{doc: doc, result: make(chan ingestOutcome, 1)}
	s.jobs <- job
	return job, nil
}

// process is the per-trip pipeline: store raw, normalize, detect, persist.
// Detections are only written after the detector finishes inside its budget,
// so a timed-out or invalid trip leaves no partial detection state.
func (s *IngestService) process(doc *models.TripUpload) (*IngestResult, error) {
	start := time.Now()

	if err := validateUpload(doc); err != nil {
		return nil, err
	}
	if err := s.trips.Put(doc); err != nil {
		return nil, err
	}

	samples, err := normalize.Trip(doc)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := detect.Run(ctx, doc.TripID, doc.UserID, samples, s.params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errs.ProcessingTimeout(doc.TripID)
		}
		return nil, err
	}

	if err := s.detections.ReplaceTripDetections(doc.TripID, result.Detections); err != nil {
		return nil, err
	}
	if err := s.segments.ReplaceTripSegments(doc.TripID, result.Segments); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"trip_id":    doc.TripID,
		"user_id":    doc.UserID,
		"samples":    len(samples),
		"detections": len(result.Detections),
		"segments":   len(result.Segments),
		"elapsed":    time.Since(start),
	}).Info("trip processed")

	return &IngestResult{TripID: doc.TripID, DetectionCount: len(result.Detections)}, nil
}

// Shutdown stops accepting new trips, drains the queue, and waits for the
// workers to finish.
func (s *IngestService) Shutdown() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.jobs)
	s.wg.Wait()
}

func validateUpload(doc *models.TripUpload) error {
	if doc == nil {
		return errs.InvalidTrip("empty document")
	}
	if doc.UserID == "" {
		return errs.InvalidTrip("missing user_id")
	}
	if doc.TripID == "" {
		return errs.InvalidTrip("missing trip_id")
	}
	if len(doc.Samples) == 0 {
		return errs.InvalidTrip("no samples")
	}
	return nil
}
