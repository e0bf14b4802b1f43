package main

import (
	"github.com/gin-gonic/gin"

	"orbit-social/apps/relation-service/dao"
	"orbit-social/apps/relation-service/handler"
	"orbit-social/apps/relation-service/model"
	"orbit-social/apps/relation-service/service"
	"orbit-social/pkg/server"
	"orbit-social/pkg/snowflake"
)

func main() {
	// 初始化ID生成器
	if err := snowflake.InitGlobalSnowflake(1); err != nil {
		panic("Failed to init snowflake: " + err.Error())
	}

	// 创建应用程序
	app := server.NewApplication("relation-service")

	// 启用HTTP服务器
	app.EnableHTTP()

	// 初始化PostgreSQL连接
	postgreSQL := app.GetPostgreSQL()

	// 自动迁移数据库表结构
	if err := postgreSQL.AutoMigrate(
		&model.Friendship{},
		&model.Block{},
	); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// 初始化DAO层
	friendshipDAO := dao.NewFriendshipDAO(postgreSQL)
	blockDAO := dao.NewBlockDAO(postgreSQL)
	preferenceDAO := dao.NewPreferenceDAO(app.GetMongoDB())

	// 初始化Service层
	svc := service.NewService(friendshipDAO, blockDAO, preferenceDAO,
		app.GetRedisClient(), app.GetKafkaProducer(), app.GetLogger())

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
