package controller

import (
	"encoding/csv"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"fieldpulse/models"
	"fieldpulse/utils"
)

type VisitController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewVisitController(db *gorm.DB, logger *log.Logger) *VisitController {
	return &VisitController{
		DB:     db,
		Logger: logger,
	}
}

type visitInput struct {
	StoreName   string `json:"store_name" validate:"required,max=200"`
	VisitDate   string `json:"visit_date" validate:"omitempty,max=40"`
	Action      string `json:"action" validate:"omitempty,max=40"`
	Amount      string `json:"amount" validate:"omitempty,max=40"`
	Quantity    string `json:"quantity" validate:"omitempty,max=40"`
	Manager     string `json:"manager" validate:"omitempty,max=100"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Region      string `json:"region" validate:"omitempty,max=100"`
	Address     string `json:"address" validate:"omitempty,max=300"`
	Phone1      string `json:"phone1" validate:"omitempty,max=40"`
	Phone2      string `json:"phone2" validate:"omitempty,max=40"`
	Phone       string `json:"phone" validate:"omitempty,max=40"`
	Tier        string `json:"tier" validate:"omitempty,max=40"`
	Email       string `json:"email" validate:"omitempty,max=200"`
	GPS         string `json:"gps" validate:"omitempty,max=100"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,max=500"`
	Note        string `json:"note"`
	Appointment string `json:"appointment" validate:"omitempty,max=40"`
}

func (in visitInput) toVisit(user *models.User) models.Visit {
	return models.Visit{
		UserID:      user.ID,
		Agent:       user.Email,
		StoreName:   strings.TrimSpace(in.StoreName),
		VisitDate:   in.VisitDate,
		Action:      in.Action,
		Amount:      in.Amount,
		Quantity:    in.Quantity,
		Manager:     in.Manager,
		City:        in.City,
		Region:      in.Region,
		Address:     in.Address,
		Phone1:      in.Phone1,
		Phone2:      in.Phone2,
		Phone:       in.Phone,
		Tier:        in.Tier,
		Email:       in.Email,
		GPS:         in.GPS,
		PhotoURL:    in.PhotoURL,
		Note:        in.Note,
		Appointment: in.Appointment,
	}
}

// CreateVisit logs a new store visit for the authenticated agent.
func (vc *VisitController) CreateVisit(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input visitInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	visit := input.toVisit(user)
	if err := vc.DB.Create(&visit).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create visit", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(visit))
}

// GetVisits returns a paginated list of visits with optional filters.
// Agents only see their own visits; managers see everything.
func (vc *VisitController) GetVisits(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := vc.scoped(user)

	if store := c.Query("store"); store != "" {
		query = query.Where("store_name ILIKE ?", "%"+store+"%")
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if agent := c.Query("agent"); agent != "" && user.IsManager() {
		query = query.Where("agent = ?", agent)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Model(&models.Visit{}).Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count visits", err)
	}

	var visits []models.Visit
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&visits).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch visits", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  visits,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (vc *VisitController) GetVisit(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var visit models.Visit
	if err := vc.scoped(user).First(&visit, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Visit not found", nil)
	}

	return c.JSON(utils.SuccessResponse(visit))
}

func (vc *VisitController) UpdateVisit(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var visit models.Visit
	if err := vc.scoped(user).First(&visit, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Visit not found", nil)
	}

	var input visitInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updated := input.toVisit(user)
	updated.ID = visit.ID
	updated.UserID = visit.UserID
	updated.Agent = visit.Agent
	updated.CreatedAt = visit.CreatedAt
	if err := vc.DB.Save(&updated).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update visit", err)
	}

	return c.JSON(utils.SuccessResponse(updated))
}

func (vc *VisitController) DeleteVisit(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var visit models.Visit
	if err := vc.scoped(user).First(&visit, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Visit not found", nil)
	}

	if err := vc.DB.Delete(&visit).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete visit", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": visit.ID}))
}

// csvColumns maps CSV headers onto visit fields for import and export.
var csvColumns = []string{
	"store_name", "agent", "visit_date", "action", "amount", "quantity",
	"manager", "city", "region", "address", "phone1", "phone2", "phone",
	"tier", "email", "gps", "photo_url", "note", "appointment",
}

// ImportVisits ingests a CSV export from the field app. Values are kept
// verbatim; the analytics engine handles normalization and coercion.
func (vc *VisitController) ImportVisits(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "CSV file is required", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to open uploaded file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read CSV header", err)
	}
	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		columnIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columnIndex["store_name"]; !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "CSV must have a store_name column", nil)
	}

	cell := func(row []string, name string) string {
		idx, ok := columnIndex[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rows, malformed := readDataRows(reader, vc.Logger)
	imported, skipped := 0, malformed
	for _, row := range rows {
		if cell(row, "store_name") == "" {
			skipped++
			continue
		}

		agent := cell(row, "agent")
		if agent == "" || !user.IsManager() {
			agent = user.Email
		}

		visit := models.Visit{
			UserID:      user.ID,
			StoreName:   cell(row, "store_name"),
			Agent:       agent,
			VisitDate:   cell(row, "visit_date"),
			Action:      cell(row, "action"),
			Amount:      cell(row, "amount"),
			Quantity:    cell(row, "quantity"),
			Manager:     cell(row, "manager"),
			City:        cell(row, "city"),
			Region:      cell(row, "region"),
			Address:     cell(row, "address"),
			Phone1:      cell(row, "phone1"),
			Phone2:      cell(row, "phone2"),
			Phone:       cell(row, "phone"),
			Tier:        cell(row, "tier"),
			Email:       cell(row, "email"),
			GPS:         cell(row, "gps"),
			PhotoURL:    cell(row, "photo_url"),
			Note:        cell(row, "note"),
			Appointment: cell(row, "appointment"),
		}
		if err := vc.DB.Create(&visit).Error; err != nil {
			vc.Logger.Printf("Failed to import visit row: %v", err)
			skipped++
			continue
		}
		imported++
	}

	vc.Logger.Printf("CSV import by user %d: %d imported, %d skipped", user.ID, imported, skipped)
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"imported": imported,
		"skipped":  skipped,
	}))
}

// readDataRows drains the remaining CSV rows. A row the parser rejects is
// counted as bad and skipped; one malformed line must not discard the
// rest of the file.
func readDataRows(reader *csv.Reader, logger *log.Logger) ([][]string, int) {
	var rows [][]string
	bad := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return rows, bad
		}
		if err != nil {
			if logger != nil {
				logger.Printf("Skipping malformed CSV row: %v", err)
			}
			bad++
			continue
		}
		rows = append(rows, row)
	}
}

// ExportVisits streams the caller's visible visits as CSV.
func (vc *VisitController) ExportVisits(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var visits []models.Visit
	if err := vc.scoped(user).Order("created_at ASC").Find(&visits).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch visits", err)
	}

	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	_ = writer.Write(csvColumns)
	for _, v := range visits {
		_ = writer.Write([]string{
			v.StoreName, v.Agent, v.VisitDate, v.Action, v.Amount, v.Quantity,
			v.Manager, v.City, v.Region, v.Address, v.Phone1, v.Phone2, v.Phone,
			v.Tier, v.Email, v.GPS, v.PhotoURL, v.Note, v.Appointment,
		})
	}
	writer.Flush()

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="visits.csv"`)
	return c.SendString(sb.String())
}

// scoped restricts queries to the caller's own visits unless they are a
// manager.
func (vc *VisitController) scoped(user *models.User) *gorm.DB {
	if user.IsManager() {
		return vc.DB
	}
	return vc.DB.Where("user_id = ?", user.ID)
}
