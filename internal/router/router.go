package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"Alumni_Network/internal/config"
	"Alumni_Network/internal/handler"
	"Alumni_Network/internal/middleware"
	"Alumni_Network/internal/model"
	"Alumni_Network/internal/pkg"
	"Alumni_Network/internal/repository/redis"
	"Alumni_Network/internal/repository/store"
	"Alumni_Network/internal/service"
)

// Deps are the process-wide resources the services are built on.
type Deps struct {
	DB     *gorm.DB
	Redis  *goredis.Client
	Mail   pkg.Sender // nil: codes go to the log, notifications are not mailed
	Log    *zap.Logger
	Config *config.Config
}

type Services struct {
	Users         *service.UserService
	Email         *service.EmailService
	Profiles      *service.ProfileService
	Connections   *service.ConnectionService
	Search        *service.SearchService
	Events        *service.EventService
	Jobs          *service.JobService
	Roles         *service.RoleService
	Mentorship    *service.MentorshipService
	Meetings      *service.MeetingService
	Achievements  *service.AchievementService
	Notifications *service.NotificationService
	Analytics     *service.AnalyticsService
}

func NewServices(d Deps) *Services {
	cfg := d.Config
	userRepo := &store.UserRepository{DB: d.DB}
	profileRepo := &store.ProfileRepository{DB: d.DB}
	mentorRepo := &store.MentorshipRepository{DB: d.DB}

	codeMail := d.Mail
	if codeMail == nil {
		codeMail = &pkg.LogMailer{Log: d.Log}
	}

	s := &Services{}
	s.Notifications = service.NewNotificationService(&store.NotificationRepository{DB: d.DB}, userRepo, d.Mail, d.Log)
	s.Email = service.NewEmailService(codeMail, &redis.CodeRepository{RDB: d.Redis})
	s.Users = service.NewUserService(userRepo,
		&redis.TokenRepository{RDB: d.Redis, TTL: cfg.JWT.AccessTTL, RefreshTTL: cfg.JWT.RefreshTTL},
		pkg.NewTokenIssuer(cfg.JWT), s.Email)
	s.Profiles = service.NewProfileService(profileRepo)
	s.Connections = service.NewConnectionService(&store.ConnectionRepository{DB: d.DB}, userRepo, s.Notifications)
	s.Search = service.NewSearchService(profileRepo, &store.SavedSearchRepository{DB: d.DB})
	s.Roles = service.NewRoleService(&store.RoleRepository{DB: d.DB}, userRepo)
	s.Events = service.NewEventService(&store.EventRepository{DB: d.DB},
		&redis.AttendeeCache{RDB: d.Redis}, &redis.DistLock{RDB: d.Redis}, s.Notifications, d.Log)
	s.Jobs = service.NewJobService(&store.JobRepository{DB: d.DB}, s.Roles)
	s.Mentorship = service.NewMentorshipService(mentorRepo, s.Notifications, cfg.Mentorship)
	s.Meetings = service.NewMeetingService(&store.MeetingRepository{DB: d.DB}, mentorRepo, s.Notifications)
	s.Achievements = service.NewAchievementService(&store.AchievementRepository{DB: d.DB}, s.Notifications)
	s.Analytics = service.NewAnalyticsService(&store.AnalyticsRepository{DB: d.DB}, profileRepo,
		&redis.AnalyticsCache{RDB: d.Redis}, d.Log)
	return s
}

func InitRouter(s *Services, log *zap.Logger) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := service.RegisterValidators(v); err != nil {
			return nil, err
		}
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"msg": "ok"}) })

	user := handler.NewUserHandler(s.Users)
	email := handler.NewEmailHandler(s.Email)
	profile := handler.NewProfileHandler(s.Profiles)
	connection := handler.NewConnectionHandler(s.Connections)
	search := handler.NewSearchHandler(s.Search)
	event := handler.NewEventHandler(s.Events)
	job := handler.NewJobHandler(s.Jobs)
	mentorship := handler.NewMentorshipHandler(s.Mentorship)
	meeting := handler.NewMeetingHandler(s.Meetings)
	achievement := handler.NewAchievementHandler(s.Achievements)
	notification := handler.NewNotificationHandler(s.Notifications)
	role := handler.NewRoleHandler(s.Roles)
	analytics := handler.NewAnalyticsHandler(s.Analytics)

	auth := middleware.AuthMiddleware(s.Users)
	can := func(perm string) gin.HandlerFunc { return middleware.RequirePermission(s.Roles, perm) }

	api := r.Group("/api")

	api.POST("/email/:scope/code", email.SendCode)

	userGroup := api.Group("/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
	}
	api.POST("/token/refresh", user.TokenRefresh)

	authGroup := api.Group("/auth", auth)
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.GET("/me/permissions", role.MyPermissions)
	}

	profileGroup := api.Group("/profile")
	{
		profileGroup.GET("/me", auth, profile.Me)
		profileGroup.PUT("/me", auth, profile.UpdateMe)
		profileGroup.GET("/url-suggestion", auth, profile.SuggestURL)
		profileGroup.GET("/:url", middleware.OptionalAuth(s.Users), profile.GetByURL)
	}

	connGroup := api.Group("/connections", auth)
	{
		connGroup.POST("", connection.Connect)
		connGroup.GET("/following", connection.ListFollowing)
		connGroup.GET("/followers", connection.ListFollowers)
		connGroup.GET("/relation", connection.Relation)
	}

	searchGroup := api.Group("/search", auth)
	{
		searchGroup.GET("/profiles", search.Profiles)
		searchGroup.GET("/filters", search.Filters)
		searchGroup.GET("/saved", search.ListSaved)
		searchGroup.POST("/saved", search.Save)
		searchGroup.DELETE("/saved/:id", search.DeleteSaved)
	}

	eventGroup := api.Group("/events", auth)
	{
		eventGroup.GET("", event.List)
		eventGroup.GET("/:id", event.Get)
		eventGroup.POST("/:id/rsvp", event.RSVP)
		eventGroup.GET("/:id/attendees", event.Attendees)
		eventGroup.POST("", can(model.PermEventsManage), event.Create)
		eventGroup.PUT("/:id", can(model.PermEventsManage), event.Update)
		eventGroup.POST("/:id/cancel", can(model.PermEventsManage), event.Cancel)
	}

	jobGroup := api.Group("/jobs", auth)
	{
		jobGroup.POST("", job.Create)
		jobGroup.GET("", job.List)
		jobGroup.GET("/:id", job.Get)
		jobGroup.PUT("/:id", job.Update)
		jobGroup.POST("/:id/close", job.Close)
		jobGroup.DELETE("/:id", job.Delete)
	}

	mentorGroup := api.Group("/mentorship", auth)
	{
		mentorGroup.PUT("/mentor", mentorship.SaveMentor)
		mentorGroup.GET("/mentors", mentorship.ListMentors)
		mentorGroup.GET("/mentors/:id/slots", mentorship.MentorSlots)
		mentorGroup.POST("/matches", mentorship.Matches)
		mentorGroup.POST("/requests", mentorship.Request)
		mentorGroup.POST("/requests/:id/accept", mentorship.Accept)
		mentorGroup.POST("/requests/:id/decline", mentorship.Decline)
		mentorGroup.GET("/relationships", mentorship.Relationships)
		mentorGroup.POST("/relationships/:id/end", mentorship.End)
		mentorGroup.POST("/slots", mentorship.AddSlot)
		mentorGroup.DELETE("/slots/:id", mentorship.DeleteSlot)
		mentorGroup.POST("/meetings", meeting.Book)
		mentorGroup.GET("/meetings", meeting.List)
		mentorGroup.POST("/meetings/:id/cancel", meeting.Cancel)
		mentorGroup.POST("/meetings/:id/complete", meeting.Complete)
	}

	achievementGroup := api.Group("/achievements", auth)
	{
		achievementGroup.POST("", achievement.Create)
		achievementGroup.GET("", achievement.List)
		achievementGroup.DELETE("/:id", achievement.Delete)
		achievementGroup.POST("/:id/verify", can(model.PermAchievementsVerify), achievement.Verify)
	}

	notifyGroup := api.Group("/notifications", auth)
	{
		notifyGroup.GET("", notification.List)
		notifyGroup.GET("/unread-count", notification.UnreadCount)
		notifyGroup.POST("/read-all", notification.MarkAllRead)
		notifyGroup.POST("/:id/read", notification.MarkRead)
	}

	adminGroup := api.Group("/admin", auth)
	{
		adminGroup.GET("/analytics", can(model.PermAnalyticsView), analytics.Dashboard)

		roles := adminGroup.Group("", can(model.PermRolesManage))
		roles.POST("/roles", role.Create)
		roles.GET("/roles", role.List)
		roles.POST("/users/:id/roles", role.Assign)
		roles.DELETE("/users/:id/roles/:role", role.Revoke)
	}

	return r, nil
}
