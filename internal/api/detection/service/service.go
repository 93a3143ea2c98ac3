package detectionService

import (
	"NutriVision/internal/api/detection"
	"NutriVision/internal/entity"
	"NutriVision/pkg/detectionapi"
	"NutriVision/pkg/monitor"
	"NutriVision/pkg/notifier"
	"NutriVision/pkg/redis"
	"NutriVision/pkg/utils"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const DefaultResultTTL = 30 * time.Minute

type IDetectionService interface {
	AnalyzeImage(ctx context.Context, upload detection.ImageUpload) (*detection.AnalysisResponse, error)
	AnalyzeBase64(ctx context.Context, clientKey string, base64Image string) (*detection.AnalysisResponse, error)
	GetAnalysis(ctx context.Context, id string) (*entity.AnalysisResult, error)
	DiscardAnalysis(ctx context.Context, id string) error
	ConnectionStatus() entity.ConnectionStatus
	RefreshConnection(ctx context.Context) entity.ConnectionStatus
	RejectUpload(err error) error
}

type Options struct {
	ResultTTL          time.Duration
	UploadMaxDimension int
	UploadJPEGQuality  int
	BackendURL         string
}

type detectionService struct {
	log      *logrus.Logger
	client   detectionapi.IDetectionClient
	store    redis.IRedis
	notifier notifier.INotifier
	monitor  monitor.IMonitor
	utils    utils.IUtils
	opts     Options

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewDetectionService(
	log *logrus.Logger,
	client detectionapi.IDetectionClient,
	store redis.IRedis,
	notifier notifier.INotifier,
	monitor monitor.IMonitor,
	utils utils.IUtils,
	opts Options,
) IDetectionService {
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = DefaultResultTTL
	}
	return &detectionService{
		log:      log,
		client:   client,
		store:    store,
		notifier: notifier,
		monitor:  monitor,
		utils:    utils,
		opts:     opts,
		inFlight: make(map[string]struct{}),
	}
}
