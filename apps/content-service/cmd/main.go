package main

import (
	"context"

	"github.com/gin-gonic/gin"

	contentdao "orbit-social/apps/content-service/dao"
	"orbit-social/apps/content-service/handler"
	contentmodel "orbit-social/apps/content-service/model"
	contentservice "orbit-social/apps/content-service/service"
	relationdao "orbit-social/apps/relation-service/dao"
	relationmodel "orbit-social/apps/relation-service/model"
	relationservice "orbit-social/apps/relation-service/service"
	"orbit-social/pkg/server"
	"orbit-social/pkg/snowflake"
)

func main() {
	// 初始化ID生成器
	if err := snowflake.InitGlobalSnowflake(2); err != nil {
		panic("Failed to init snowflake: " + err.Error())
	}

	// 创建应用程序
	app := server.NewApplication("content-service")

	// 启用HTTP服务器
	app.EnableHTTP()

	// 初始化PostgreSQL连接
	postgreSQL := app.GetPostgreSQL()

	// 自动迁移数据库表结构（关系表与relation-service共用同一个库）
	if err := postgreSQL.AutoMigrate(
		&contentmodel.Post{},
		&contentmodel.Comment{},
		&contentmodel.Like{},
		&contentmodel.Chat{},
		&relationmodel.Friendship{},
		&relationmodel.Block{},
	); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// 初始化DAO层
	postDAO := contentdao.NewPostDAO(postgreSQL)
	likeDAO := contentdao.NewLikeDAO(postgreSQL)
	chatDAO := contentdao.NewChatDAO(postgreSQL)

	// 关系服务进程内装配，作为守门检查的依赖
	friendshipDAO := relationdao.NewFriendshipDAO(postgreSQL)
	blockDAO := relationdao.NewBlockDAO(postgreSQL)
	preferenceDAO := relationdao.NewPreferenceDAO(app.GetMongoDB())
	relationSvc := relationservice.NewService(friendshipDAO, blockDAO, preferenceDAO,
		app.GetRedisClient(), app.GetKafkaProducer(), app.GetLogger())

	// 初始化Service层
	svc := contentservice.NewService(postDAO, likeDAO, chatDAO,
		relationSvc, relationSvc,
		app.GetRedisClient(), app.GetKafkaProducer(), app.GetLogger())

	// 帖子删除后的附属数据清理
	svc.RegisterCleanupHook(func(ctx context.Context, post *contentmodel.Post) error {
		return postDAO.DeleteCommentsByPost(ctx, post.ID)
	})
	svc.RegisterCleanupHook(func(ctx context.Context, post *contentmodel.Post) error {
		return likeDAO.DeleteLikesByTarget(ctx, contentmodel.TargetKindPost, post.ID)
	})

	// 初始化Handler
	httpHandler := handler.NewHTTPHandler(svc, app.GetLogger())

	// 注册HTTP路由
	app.RegisterHTTPRoutes(func(engine *gin.Engine) {
		httpHandler.RegisterRoutes(engine)
	})

	// 运行应用程序
	if err := app.Run(); err != nil {
		panic(err)
	}
}
