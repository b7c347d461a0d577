package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mbeleck/eduquiz/ai"
	config "github.com/mbeleck/eduquiz/configs"
	"github.com/mbeleck/eduquiz/database"
	"github.com/mbeleck/eduquiz/middleware"
	"github.com/mbeleck/eduquiz/models"
)

var validate = validator.New()

const courseUploadDir = "./uploads/courses"

type CourseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	SubjectID   string `json:"subject_id" validate:"required,uuid4"`
	Level       string `json:"level" validate:"required,max=20"`
}

// UploadCourse stores the teacher's course PDF, extracts its text and
// persists the Course. Extraction failures are soft: the course is saved
// with is_processed=false and generation is rejected later.
func UploadCourse(c *fiber.Ctx) error {
	teacherID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	req := CourseRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		SubjectID:   c.FormValue("subject_id"),
		Level:       c.FormValue("level"),
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	subjectID, _ := uuid.Parse(req.SubjectID)
	var subject models.Subject
	if err := database.DB.First(&subject, "id = ?", subjectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subject not found"})
	}

	file, err := c.FormFile("pdf_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing pdf_file upload"})
	}

	if err := os.MkdirAll(courseUploadDir, 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare upload directory"})
	}

	courseID := uuid.New()
	path := filepath.Join(courseUploadDir, fmt.Sprintf("%s.pdf", courseID))
	if err := c.SaveFile(file, path); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store uploaded file"})
	}

	text, extracted := ai.ExtractFile(path)

	course := models.Course{
		ID:            courseID,
		Title:         req.Title,
		Description:   req.Description,
		SubjectID:     subjectID,
		Level:         req.Level,
		TeacherID:     teacherID,
		FilePath:      path,
		ExtractedText: text,
		IsProcessed:   extracted,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"course":    course,
		"extracted": extracted,
	})
}

func ListCourses(c *fiber.Ctx) error {
	teacherID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var courses []models.Course
	database.DB.Preload("Subject").Where("teacher_id = ?", teacherID).Order("created_at DESC").Find(&courses)
	return c.JSON(courses)
}

func GetCourse(c *fiber.Ctx) error {
	teacherID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	courseID := c.Params("courseId")
	var course models.Course
	if err := database.DB.Preload("Subject").First(&course, "id = ? AND teacher_id = ?", courseID, teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	return c.JSON(course)
}

type GenerateQuestionsRequest struct {
	Count int `json:"count" validate:"required,min=1,max=50"`
}

// GenerateQuestions runs the AI pipeline over a course's extracted text and
// returns transient drafts. Nothing is persisted here; drafts only become
// canonical through the approval endpoint.
func GenerateQuestions(c *fiber.Ctx) error {
	teacherID, err := middleware.CallerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var req GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	courseID := c.Params("courseId")
	var course models.Course
	if err := database.DB.Preload("Subject").First(&course, "id = ? AND teacher_id = ?", courseID, teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	if !course.IsProcessed || course.ExtractedText == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Course text has not been extracted; re-upload a readable PDF",
			"code":  "empty_document",
		})
	}

	client := ai.NewClient()
	result, err := client.GenerateQuestions(c.UserContext(), course.ExtractedText, course.Subject.Name, course.Level, req.Count)
	if err != nil {
		return generationError(c, err)
	}

	return c.JSON(fiber.Map{
		"quiz_title":       result.QuizTitle,
		"quiz_description": result.QuizDescription,
		"estimated_time":   result.EstimatedTime,
		"drafts":           result.Drafts,
		"discarded_count":  len(result.Discarded),
		"discarded":        result.Discarded,
	})
}

func generationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ai.ErrInvalidQuestionCount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "invalid_question_count"})
	case errors.Is(err, ai.ErrEmptyDocument):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error(), "code": "empty_document"})
	case errors.Is(err, ai.ErrGenerationTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": err.Error(), "code": "generation_timeout"})
	case errors.Is(err, ai.ErrGenerationUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error(), "code": "generation_unavailable"})
	case errors.Is(err, ai.ErrMalformedOutput):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error(), "code": "malformed_output"})
	case errors.Is(err, ai.ErrNoValidQuestions):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error(), "code": "no_valid_questions"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Question generation failed"})
	}
}

// GenerateUploadSignature creates a secure signature so the frontend can
// upload supporting course material straight to Cloudinary.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize Cloudinary"})
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse Cloudinary URL"})
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: "eduquiz_courses",
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare signature params"})
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}

	apiKey := cld.Config.Cloud.APIKey

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"api_key":   apiKey,
		"folder":    "eduquiz_courses",
	})
}
