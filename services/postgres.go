package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/shared"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	driver   string
	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.driver = os.Getenv("DB_DRIVER")
	if ds.driver == "" {
		ds.driver = "postgres"
	}

	if ds.driver == "sqlite" {
		ds.database = os.Getenv("DB_NAME")
		if ds.database == "" {
			ds.database = "rebooto.db"
		}
		return ds.DefaultService.Configure(ctx)
	}

	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "rebooto"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		timezone := os.Getenv("DB_TIMEZONE")
		if timezone == "" {
			timezone = "UTC"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ds.db, err = ds.open()
		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				if pingErr := sqlDB.Ping(); pingErr == nil {
					break
				} else {
					err = pingErr
				}
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	if err = ds.Migrate(); err != nil {
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) open() (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	}

	if ds.driver == "sqlite" {
		return gorm.Open(sqlite.Open(ds.database), cfg)
	}
	return gorm.Open(postgres.Open(ds.database), cfg)
}

func (ds *PostgresService) Migrate() error {
	models := []interface{}{
		&model.User{},

		// Content models
		&model.Course{},
		&model.Lesson{},
		&model.MediaAsset{},

		// Progress & reward models
		&model.UserProgress{},
		&model.Achievement{},
		&model.UserAchievement{},

		// Community models
		&model.BlogPost{},
		&model.SupportTicket{},
		&model.EmailCampaign{},
	}

	if err := ds.db.AutoMigrate(models...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}
	return nil
}

func (ds *PostgresService) Shutdown() {
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "connection refused") {
			statusCode = http.StatusServiceUnavailable
			errorType = "DATABASE_CONNECTION_ERROR"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return shared.NewAppError(statusCode, err, errorType)
}

// ==================== USER METHODS ====================

func (ds *PostgresService) CreateUser(user *model.User) (*model.User, error) {
	if user.ID == "" {
		id, _ := uuid.NewV7()
		user.ID = id.String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := ds.db.Create(user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return user, nil
}

func (ds *PostgresService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) GetUserByEmailOrUsername(emailOrUsername string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("LOWER(email) = LOWER(?) OR LOWER(username) = LOWER(?)",
		emailOrUsername, emailOrUsername).First(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) UpdateUser(user *model.User) error {
	user.UpdatedAt = time.Now()
	if err := ds.db.Save(user).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) UpdateUserFields(userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	if err := ds.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) AdminGetUsers(page, limit int, search string) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := ds.db.Model(&model.User{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ds.HandleError(err)
	}

	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, ds.HandleError(err)
	}

	return users, total, nil
}

func (ds *PostgresService) AdminDeleteUser(userID string) error {
	if err := ds.db.Where("id = ?", userID).Delete(&model.User{}).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) GetLeaderboard(limit int) ([]model.User, error) {
	var users []model.User
	if err := ds.db.Where("is_active = ?", true).
		Order("xp DESC").Limit(limit).
		Find(&users).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return users, nil
}

func (ds *PostgresService) GetUserRank(userID string) (int, error) {
	user, err := ds.GetUser(userID)
	if err != nil {
		return 0, err
	}

	var ahead int64
	if err := ds.db.Model(&model.User{}).
		Where("is_active = ? AND xp > ?", true, user.XP).
		Count(&ahead).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	return int(ahead) + 1, nil
}

func (ds *PostgresService) CountCampaignRecipients(role string, minLevel int) (int64, error) {
	query := ds.db.Model(&model.User{}).Where("is_active = ?", true)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if minLevel > 0 {
		query = query.Where("level >= ?", minLevel)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	return count, nil
}

// ==================== COURSE METHODS ====================

func (ds *PostgresService) CreateCourse(course *model.Course) (*model.Course, error) {
	if course.ID == "" {
		id, _ := uuid.NewV7()
		course.ID = id.String()
	}
	course.CreatedAt = time.Now()
	course.UpdatedAt = time.Now()

	if err := ds.db.Create(course).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return course, nil
}

func (ds *PostgresService) GetCourse(id string) (*model.Course, error) {
	var course model.Course
	if err := ds.db.Where("id = ?", id).First(&course).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &course, nil
}

func (ds *PostgresService) GetCourses(publishedOnly bool) ([]model.Course, error) {
	var courses []model.Course
	query := ds.db.Order("order_index ASC, created_at ASC")
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Find(&courses).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return courses, nil
}

func (ds *PostgresService) UpdateCourse(course *model.Course) error {
	course.UpdatedAt = time.Now()
	if err := ds.db.Save(course).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== LESSON METHODS ====================

func (ds *PostgresService) CreateLesson(lesson *model.Lesson) (*model.Lesson, error) {
	if lesson.ID == "" {
		id, _ := uuid.NewV7()
		lesson.ID = id.String()
	}
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = time.Now()

	if err := ds.db.Create(lesson).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return lesson, nil
}

func (ds *PostgresService) GetLesson(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := ds.db.Where("id = ?", id).First(&lesson).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &lesson, nil
}

func (ds *PostgresService) GetLessonsByCourse(courseID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := ds.db.Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&lessons).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return lessons, nil
}

func (ds *PostgresService) UpdateLesson(lesson *model.Lesson) error {
	lesson.UpdatedAt = time.Now()
	if err := ds.db.Save(lesson).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== PROGRESS METHODS ====================

func (ds *PostgresService) GetUserLessonProgress(userID, lessonID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	if err := ds.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &progress, nil
}

func (ds *PostgresService) GetUserProgressList(userID string) ([]model.UserProgress, error) {
	var progress []model.UserProgress
	if err := ds.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return progress, nil
}

// ==================== ACHIEVEMENT METHODS ====================

func (ds *PostgresService) CreateAchievement(achievement *model.Achievement) (*model.Achievement, error) {
	if achievement.ID == "" {
		id, _ := uuid.NewV7()
		achievement.ID = id.String()
	}
	achievement.CreatedAt = time.Now()
	achievement.UpdatedAt = time.Now()

	if err := ds.db.Create(achievement).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return achievement, nil
}

func (ds *PostgresService) GetActiveAchievements() ([]model.Achievement, error) {
	var achievements []model.Achievement
	if err := ds.db.Where("is_active = ?", true).
		Order("xp_required ASC").
		Find(&achievements).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return achievements, nil
}

func (ds *PostgresService) GetUserAchievements(userID string) ([]model.UserAchievement, error) {
	var userAchievements []model.UserAchievement
	if err := ds.db.Preload("Achievement").Where("user_id = ?", userID).
		Find(&userAchievements).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return userAchievements, nil
}

// ==================== MEDIA METHODS ====================

func (ds *PostgresService) CreateMediaAsset(asset *model.MediaAsset) error {
	if asset.ID == "" {
		id, _ := uuid.NewV7()
		asset.ID = id.String()
	}
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = time.Now()

	if err := ds.db.Create(asset).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) GetMediaAsset(id string) (*model.MediaAsset, error) {
	var asset model.MediaAsset
	if err := ds.db.Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &asset, nil
}

func (ds *PostgresService) DeleteMediaAsset(id string) error {
	if err := ds.db.Where("id = ?", id).Delete(&model.MediaAsset{}).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== COMMUNITY METHODS ====================

func (ds *PostgresService) CreateBlogPost(post *model.BlogPost) (*model.BlogPost, error) {
	if post.ID == "" {
		id, _ := uuid.NewV7()
		post.ID = id.String()
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()

	if err := ds.db.Create(post).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return post, nil
}

func (ds *PostgresService) GetBlogPost(id string) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := ds.db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &post, nil
}

func (ds *PostgresService) GetBlogPosts(kind string, publishedOnly bool) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	query := ds.db.Order("created_at DESC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return posts, nil
}

func (ds *PostgresService) UpdateBlogPost(post *model.BlogPost) error {
	post.UpdatedAt = time.Now()
	if err := ds.db.Save(post).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) DeleteBlogPost(id string) error {
	if err := ds.db.Where("id = ?", id).Delete(&model.BlogPost{}).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) CreateSupportTicket(ticket *model.SupportTicket) (*model.SupportTicket, error) {
	if ticket.ID == "" {
		id, _ := uuid.NewV7()
		ticket.ID = id.String()
	}
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()

	if err := ds.db.Create(ticket).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return ticket, nil
}

func (ds *PostgresService) GetSupportTicket(id string) (*model.SupportTicket, error) {
	var ticket model.SupportTicket
	if err := ds.db.Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &ticket, nil
}

func (ds *PostgresService) GetSupportTickets(userID, status string) ([]model.SupportTicket, error) {
	var tickets []model.SupportTicket
	query := ds.db.Order("created_at DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&tickets).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return tickets, nil
}

func (ds *PostgresService) UpdateSupportTicket(ticket *model.SupportTicket) error {
	ticket.UpdatedAt = time.Now()
	if err := ds.db.Save(ticket).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) CreateEmailCampaign(campaign *model.EmailCampaign) (*model.EmailCampaign, error) {
	if campaign.ID == "" {
		id, _ := uuid.NewV7()
		campaign.ID = id.String()
	}
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = time.Now()

	if err := ds.db.Create(campaign).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return campaign, nil
}

func (ds *PostgresService) GetEmailCampaign(id string) (*model.EmailCampaign, error) {
	var campaign model.EmailCampaign
	if err := ds.db.Where("id = ?", id).First(&campaign).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &campaign, nil
}

func (ds *PostgresService) GetEmailCampaigns() ([]model.EmailCampaign, error) {
	var campaigns []model.EmailCampaign
	if err := ds.db.Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return campaigns, nil
}

func (ds *PostgresService) UpdateEmailCampaign(campaign *model.EmailCampaign) error {
	campaign.UpdatedAt = time.Now()
	if err := ds.db.Save(campaign).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}
