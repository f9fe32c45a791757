package main

import (
	"log"

	"github.com/readhaven/readhaven/config"
	"github.com/readhaven/readhaven/db"
	"github.com/readhaven/readhaven/mailingservices"
	"github.com/readhaven/readhaven/server"
	"github.com/readhaven/readhaven/services"
	"github.com/readhaven/readhaven/ws"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init(conf.MgDomain, conf.MailgunApiKey, conf.MgEmailFrom, conf.BaseUrl)

	gormDB := db.GetDB(conf)

	authRepo := db.NewAuthRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)
	bookRepo := db.NewBookRepo(gormDB)
	bookmarkRepo := db.NewBookmarkRepo(gormDB)
	folderRepo := db.NewFolderRepo(gormDB)
	chatRepo := db.NewChatRepo(gormDB)
	commentRepo := db.NewCommentRepo(gormDB)
	newsRepo := db.NewNewsRepo(gormDB)

	notificationHub := ws.NewHub()
	chatHub := ws.NewHub()

	mediaService, err := services.NewMediaService(conf)
	if err != nil {
		log.Fatalf("unable to initialize media service: %v", err)
	}

	authService := services.NewAuthService(authRepo, folderRepo, mailgunClient, conf)
	notificationService := services.NewNotificationService(notificationRepo, notificationHub)
	bookService := services.NewBookService(bookRepo, authRepo, mediaService)
	bookmarkService := services.NewBookmarkService(bookmarkRepo, bookRepo)
	folderService := services.NewFolderService(folderRepo, bookRepo)
	chatService := services.NewChatService(chatRepo, authRepo, chatHub)
	commentService := services.NewCommentService(commentRepo, bookRepo, notificationHub)
	newsService := services.NewNewsService(newsRepo)

	s := &server.Server{
		Config:              conf,
		AuthRepository:      authRepo,
		AuthService:         authService,
		NotificationService: notificationService,
		BookService:         bookService,
		BookmarkService:     bookmarkService,
		FolderService:       folderService,
		ChatService:         chatService,
		CommentService:      commentService,
		NewsService:         newsService,
		NotificationHub:     notificationHub,
		ChatHub:             chatHub,
	}
	s.Start()
}
