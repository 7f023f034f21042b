package services

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/docx"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

var unsafeFilename = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

type ExportedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService interface {
	ExportDOCX(title, markdown string) (*ExportedFile, error)
}

type exportService struct {
	log *logger.Logger
}

func NewExportService(baseLog *logger.Logger) ExportService {
	return &exportService{log: baseLog.With("service", "ExportService")}
}

func (es *exportService) ExportDOCX(title, markdown string) (*ExportedFile, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrMarkdownRequired
	}
	if utf8.RuneCountInString(markdown) > types.MaxArtifactContentChars {
		return nil, ErrContentTooLarge
	}
	data, err := docx.FromMarkdown(title, markdown)
	if err != nil {
		if errors.Is(err, docx.ErrEmpty) {
			return nil, ErrMarkdownRequired
		}
		return nil, err
	}
	es.log.Debug("Exported docx", "bytes", len(data))
	return &ExportedFile{
		Filename:    Filename(title, ".docx"),
		ContentType: docx.ContentType,
		Data:        data,
	}, nil
}

// Filename turns a document title into a safe attachment name.
func Filename(title, ext string) string {
	name := strings.TrimSpace(unsafeFilename.ReplaceAllString(title, " "))
	name = strings.Join(strings.Fields(name), "_")
	if rs := []rune(name); len(rs) > 80 {
		name = string(rs[:80])
	}
	if name == "" {
		name = "document"
	}
	return name + ext
}
