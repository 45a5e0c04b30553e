package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/darkkaiser/scraper-server/internal/catalog"
	"github.com/darkkaiser/scraper-server/internal/config"
	"github.com/darkkaiser/scraper-server/internal/fetcher"
	"github.com/darkkaiser/scraper-server/internal/identity"
	"github.com/darkkaiser/scraper-server/internal/notifier"
	"github.com/darkkaiser/scraper-server/internal/pkg/version"
	"github.com/darkkaiser/scraper-server/internal/product"
	"github.com/darkkaiser/scraper-server/internal/product/pipeline"
	"github.com/darkkaiser/scraper-server/internal/service/api"
	"github.com/darkkaiser/scraper-server/internal/service/api/handler"
	applog "github.com/darkkaiser/scraper-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

const banner = `
  ____
 / ___|  ___  _ __  __ _  _ __    ___  _ __  / ___|   ___  _ __ __   __  ___  _ __
 \___ \ / __|| '__|/ _` + "`" + ` || '_ \  / _ \| '__| \___ \  / _ \| '__|\ \ / / / _ \| '__|
  ___) || (__ | |  | (_| || |_) ||  __/| |     ___) ||  __/| |    \ V / |  __/| |
 |____/  \___||_|   \__,_|| .__/  \___||_|    |____/  \___||_|     \_/   \___||_|
                          |_|                                              v%s
--------------------------------------------------------------------------------
`

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU()) // 모든 CPU 사용

	configFile := flag.String("config", config.DefaultFilename, "설정 파일 경로")
	flag.Parse()

	// 환경설정 정보를 읽어들인다.
	appConfig, err := config.LoadWithFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 로그를 초기화한다.
	logOpts := applog.NewProductionOptions(config.AppName)
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	}
	logCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "로그 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	buildInfo := version.Get()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, buildInfo.Version)

	// 빌드 정보 출력
	log.Infof("빌드 정보 - 버전: %s, 빌드 날짜: %s, 빌드 번호: %s", buildInfo.Version, buildInfo.BuildDate, buildInfo.BuildNumber)
	log.Infof("Go 버전: %s, OS/Arch: %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	// 알림 채널을 초기화한다.
	var errorNotifier notifier.Notifier = notifier.NewNoOp()
	if appConfig.Notify.Enabled() {
		telegram, err := notifier.NewTelegram(appConfig.Notify.TelegramBotToken, appConfig.Notify.TelegramChatID)
		if err != nil {
			log.Fatalf("텔레그램 알림 채널 초기화 실패: %v", err)
		}
		errorNotifier = telegram
	}

	// 수집 파이프라인을 구성한다.
	// HTTP 요청 -> 브라우저 헤더/식별자 주입 -> 마켓플레이스향 속도 제한 순으로 래핑된다.
	var marketplaceFetcher fetcher.Fetcher = fetcher.NewHTTPFetcher()
	marketplaceFetcher = fetcher.NewBrowserHeaderFetcher(marketplaceFetcher, identity.NewProvider(), appConfig.Scrape.MarketplaceURL)
	marketplaceFetcher = fetcher.NewRateLimitFetcher(marketplaceFetcher, float64(appConfig.Scrape.RequestsPerSecond), appConfig.Scrape.Burst)

	scrapePipeline := pipeline.New(
		marketplaceFetcher,
		product.NewCache(appConfig.Cache.TTL),
		appConfig.Scrape.MarketplaceURL,
		appConfig.Scrape.PageTimeout,
	)

	// 카탈로그 연동 클라이언트를 구성한다. (비활성화된 경우 nil)
	var catalogClient *catalog.Client
	if appConfig.Catalog.Enabled() {
		catalogClient = catalog.New(catalog.Config{
			BaseURL:        appConfig.Catalog.URL,
			ConsumerKey:    appConfig.Catalog.ConsumerKey,
			ConsumerSecret: appConfig.Catalog.ConsumerSecret,
			WPUsername:     appConfig.Catalog.WPUsername,
			WPAppPassword:  appConfig.Catalog.WPAppPassword,
			UploadTimeout:  appConfig.Catalog.UploadTimeout,
		})
		log.Infof("카탈로그 연동 활성화: %s", appConfig.Catalog.URL)
	} else {
		log.Info("카탈로그 연동 비활성화됨")
	}

	// API 서비스를 생성하고 시작한다.
	apiHandler := handler.New(scrapePipeline, catalogClient, errorNotifier, buildInfo)
	apiService := api.NewAPIService(appConfig, apiHandler, errorNotifier)

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWaiter := &sync.WaitGroup{}

	serviceStopWaiter.Add(1)
	if err := apiService.Start(serviceStopCtx, serviceStopWaiter); err != nil {
		log.Errorf("서비스 시작 실패: %v", err)
		cancel()
		serviceStopWaiter.Wait()
		log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	<-termC // Blocks here until interrupted

	// Handle shutdown
	log.Info("Shutdown signal received")
	cancel()                 // Signal cancellation to context.Context
	serviceStopWaiter.Wait() // Block here until are workers are done
}
