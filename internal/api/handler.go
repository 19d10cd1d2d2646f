package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/insightdelivered/trial-balance-converter/internal/extractor"
	"github.com/insightdelivered/trial-balance-converter/internal/models"
	"github.com/insightdelivered/trial-balance-converter/internal/parser"
	"github.com/insightdelivered/trial-balance-converter/internal/store"
	"github.com/insightdelivered/trial-balance-converter/internal/writer"
)

// Version is reported by /api/health and the CLI.
const Version = "1.0.0"

// pageBreak separates pages in client-side (pdf.js) extracted text.
const pageBreak = "\n---PAGE_BREAK---\n"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Format       string               `json:"format,omitempty"`
	DateRange    string               `json:"dateRange,omitempty"`
	CustomerName string               `json:"customerName,omitempty"`
	PageNumber   string               `json:"pageNumber,omitempty"`
	PageCount    string               `json:"pageCount,omitempty"`
	Entries      []models.LedgerEntry `json:"entries"`
	Count        int                  `json:"count"`
	CSV          string               `json:"csv,omitempty"`
	DocumentID   string               `json:"documentId,omitempty"`
	RawText      string               `json:"rawText,omitempty"`
	Version      string               `json:"version,omitempty"`
	DebugLines   []models.DebugLine   `json:"debugLines,omitempty"`
}

// DocumentStore archives parsed documents.
type DocumentStore interface {
	Save(ctx context.Context, source string, data *models.ParsedData) (string, error)
	Get(ctx context.Context, id string) (*store.Document, error)
	List(ctx context.Context, limit int) ([]store.Summary, error)
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Parser    parser.Parser
	Store     DocumentStore // optional
	StaticDir string
	Logger    *slog.Logger
}

// NewApp builds a fiber app with the API routes registered.
func NewApp(h *Handler, bodyLimitMB int) *fiber.App {
	if bodyLimitMB <= 0 {
		bodyLimitMB = 32
	}
	app := fiber.New(fiber.Config{
		AppName:               "trial-balance-converter " + Version,
		BodyLimit:             bodyLimitMB << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(h.logRequests)
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Use("/api", setCORS)
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)

	if h.Store != nil {
		app.Get("/api/documents", h.HandleListDocuments)
		app.Get("/api/documents/:id", h.HandleGetDocument)
	}

	// Serve the web UI; unknown non-API routes get index.html (SPA).
	if h.StaticDir != "" {
		app.Static("/", h.StaticDir)
		app.Get("/*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			return c.SendFile(filepath.Join(h.StaticDir, "index.html"))
		})
	}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
	})
}

// HandleConvert accepts a PDF upload (form field "file") or already
// extracted text (form field "extractedText") and returns the parsed
// trial balance as JSON with a CSV rendering.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	includeHeader := c.FormValue("header") != "false"

	text := c.FormValue("extractedText")
	source := "extractedText"
	if strings.TrimSpace(text) != "" {
		text = extractor.Normalize(strings.ReplaceAll(text, pageBreak, "\n"))
	} else {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'extractedText'.")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
		}

		tmpFile, err := os.CreateTemp("", "mizan-*.pdf")
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
		}
		tmpPath := tmpFile.Name()
		tmpFile.Close()
		defer os.Remove(tmpPath)

		if err := c.SaveFile(fh, tmpPath); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
		}

		text, err = extractor.ExtractTextCombined(tmpPath)
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "PDF extraction failed: "+err.Error())
		}
		source = fh.Filename
	}

	p := h.parser()
	data := p.Parse(text)

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := csvWriter.Write(&csvBuf, data); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "CSV generation failed: "+err.Error())
	}

	resp := ConvertResponse{
		Success:      true,
		Format:       p.FormatName(),
		DateRange:    data.DateRange,
		CustomerName: data.CustomerName,
		PageNumber:   data.PageNumber,
		PageCount:    data.PageCount(),
		Entries:      data.LedgerEntries,
		Count:        len(data.LedgerEntries),
		CSV:          csvBuf.String(),
		RawText:      text,
		Version:      Version,
		DebugLines:   data.DebugLines,
	}

	if h.Store != nil {
		id, err := h.Store.Save(c.UserContext(), source, data)
		if err != nil {
			// The conversion itself succeeded; archive failures are only logged.
			h.logger().Error("failed to archive document", "source", source, "error", err)
		} else {
			resp.DocumentID = id
		}
	}

	return c.JSON(resp)
}

// HandleListDocuments lists archived documents, newest first.
func (h *Handler) HandleListDocuments(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	docs, err := h.Store.List(c.UserContext(), limit)
	if err != nil {
		h.logger().Error("failed to list documents", "error", err)
		return writeError(c, fiber.StatusInternalServerError, "Failed to list documents.")
	}
	return c.JSON(docs)
}

// HandleGetDocument returns one archived document with its entries.
func (h *Handler) HandleGetDocument(c *fiber.Ctx) error {
	doc, err := h.Store.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "Document not found.")
	}
	if err != nil {
		h.logger().Error("failed to load document", "id", c.Params("id"), "error", err)
		return writeError(c, fiber.StatusInternalServerError, "Failed to load document.")
	}
	return c.JSON(doc)
}

func (h *Handler) parser() parser.Parser {
	if h.Parser == nil {
		return parser.New(parser.DefaultMarkers())
	}
	return h.Parser
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func (h *Handler) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.logger().Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func setCORS(c *fiber.Ctx) error {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type")
	if c.Method() == fiber.MethodOptions {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Next()
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
	})
}
