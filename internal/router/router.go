package router

import (
	"anno-go/internal/config"
	"anno-go/internal/handler"
	"anno-go/internal/middleware"
	"anno-go/internal/repository"
	"anno-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	db *gorm.DB,
	session *service.ReviewSession,
) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg))

	// 健康检查
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message":   "CSV标注评审系统 API",
			"version":   "1.0.0",
			"annotator": cfg.Annotator.Name,
		})
	})

	// 初始化Repository
	eventRepo := repository.NewAnnotationEventRepository(db)

	// 初始化Service
	reportService := service.NewReportService(eventRepo)

	// 初始化Handler
	annotationHandler := handler.NewAnnotationHandler(session)
	reportHandler := handler.NewReportHandler(reportService, session)

	// API路由组
	api := r.Group("/api")
	{
		// 标注接口
		annotation := api.Group("/annotation")
		{
			annotation.GET("/current", annotationHandler.GetCurrent)
			annotation.POST("/submit", annotationHandler.SubmitDecision)
			annotation.GET("/progress", annotationHandler.GetProgress)
		}

		// 报表接口
		api.GET("/reports/session", reportHandler.GetSessionReport)
	}

	return r
}
