package conversion

import (
	"time"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

const (
	modeInline = "inline"
	modeAsync  = "async"
)

// Service orchestrates conversions: inline ones in the caller's goroutine,
// async ones on the scheduler with their lifecycle kept in the task registry.
type Service struct {
	formats    port.FormatValidator
	converters map[model.MediaKind]port.MediaConverter
	tasks      port.TaskRegistry
	sched      port.Scheduler
	sink       port.ArtifactSink
	convLog    port.ConversionLog
	newID      port.UUIDGen
	now        port.Clock
	tempDir    string
}

// compile-time checks: *Service serves every conversion use case
var (
	_ port.InlineConverter = (*Service)(nil)
	_ port.TaskSubmitter   = (*Service)(nil)
	_ port.StatusPoller    = (*Service)(nil)
	_ port.ArtifactFetcher = (*Service)(nil)
)

func NewService(
	formats port.FormatValidator,
	converters map[model.MediaKind]port.MediaConverter,
	tasks port.TaskRegistry,
	sched port.Scheduler,
	sink port.ArtifactSink,
	convLog port.ConversionLog,
	tempDir string,
) *Service {
	return &Service{
		formats:    formats,
		converters: converters,
		tasks:      tasks,
		sched:      sched,
		sink:       sink,
		convLog:    convLog,
		newID:      uuid.NewUUID,
		now:        time.Now,
		tempDir:    tempDir,
	}
}

// WithIDGen swaps the task id generator.
func (s *Service) WithIDGen(gen port.UUIDGen) *Service {
	s.newID = gen
	return s
}

// WithClock swaps the clock used for log timestamps.
func (s *Service) WithClock(now port.Clock) *Service {
	s.now = now
	return s
}
