package source

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/gimvic/schedule-sync/internal/dateutil"
	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/internal/parser"
	"github.com/gimvic/schedule-sync/internal/tabular"
	"github.com/gimvic/schedule-sync/pkg/config"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

// Menu scrapes the school website's menu index for snack and lunch menu
// documents.
type Menu struct {
	cfg    config.MenuConfig
	client *http.Client
	logger *zap.Logger
}

// NewMenu constructs the menu index adapter.
func NewMenu(cfg config.MenuConfig, timeout time.Duration, logger *zap.Logger) *Menu {
	return &Menu{cfg: cfg, client: newHTTPClient(timeout), logger: logger}
}

// Name implements Source.
func (s *Menu) Name() string { return "menu" }

// Menu filenames follow jedilnik-<kind>-YYYY-MM-DD with optional correction
// suffixes. Older uploads occasionally came as spreadsheets.
var menuDatePatterns = []dateutil.Pattern{
	{Regexp: regexp.MustCompile(`jedilnik-(?:kosilo|malica)-(\d+)-(\d+)-(\d+)(?:-[\w-]*)?\.pdf`), Build: dateutil.DMY(3, 2, 1)},
	{Regexp: regexp.MustCompile(`jedilnik-(?:kosilo|malica)-(\d+)-(\d+)-(\d+)(?:-[\w-]*)?\.xlsx`), Build: dateutil.DMY(3, 2, 1)},
}

// List implements Source. Anchor links inside li.jedilnik items are
// classified by their visible text.
func (s *Menu) List(ctx context.Context) ([]Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "building menu index request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "menu index unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrors.Clone(appErrors.ErrSourceUnavailable, "menu index returned status "+resp.Status)
	}

	page, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "parsing menu index")
	}

	var docs []Descriptor
	page.Find("li.jedilnik a[href]").Each(func(_ int, link *goquery.Selection) {
		text := strings.ToLower(link.Text())

		var kind models.DocumentKind
		switch {
		case strings.Contains(text, "malica"):
			kind = models.KindSnackMenu
		case strings.Contains(text, "kosilo"):
			kind = models.KindLunchMenu
		default:
			return
		}

		href, _ := link.Attr("href")
		docURL := s.cfg.URL + href
		docs = append(docs, Descriptor{
			URL:       docURL,
			Kind:      kind,
			Extension: urlExtension(docURL),
		})
	})

	if len(docs) == 0 {
		s.logger.Info("no menus found on the index page")
	}
	return docs, nil
}

// FetchURL implements Source. Menu documents are public.
func (s *Menu) FetchURL(docURL string) string { return docURL }

// NeedsParsing implements Source. Every menu document is parsable.
func (s *Menu) NeedsParsing(Descriptor) bool { return true }

// NeedsContentExtraction implements Source.
func (s *Menu) NeedsContentExtraction(Descriptor) bool { return false }

// Title implements Source.
func (s *Menu) Title(d Descriptor) string {
	if d.Kind == models.KindSnackMenu {
		return "Jedilnik za malico"
	}
	return "Jedilnik za kosilo"
}

// EffectiveDate implements Source. The filename date is snapped to the
// Monday of its week, since one menu document covers the whole week.
func (s *Menu) EffectiveDate(d Descriptor) (*time.Time, error) {
	date, err := dateutil.Resolve(menuDatePatterns, d.URL)
	if err != nil {
		return nil, err
	}
	monday := dateutil.WeekMonday(date)
	return &monday, nil
}

// Parse implements Source. Dispatch is by kind and file extension.
func (s *Menu) Parse(d Descriptor, content []byte, effective *time.Time) (*ParseResult, error) {
	switch d.Extension {
	case "pdf":
		tables, err := tabular.ExtractPDF(content)
		if err != nil {
			return nil, err
		}
		if d.Kind == models.KindSnackMenu {
			return &ParseResult{SnackMenus: parser.SnackMenuPDF(tables, *effective)}, nil
		}
		return &ParseResult{LunchMenus: parser.LunchMenuPDF(tables, *effective)}, nil

	case "xlsx":
		if d.Kind == models.KindSnackMenu {
			menus, err := parser.SnackMenuXLSX(content, *effective)
			if err != nil {
				return nil, err
			}
			return &ParseResult{SnackMenus: menus}, nil
		}
		menus, err := parser.LunchMenuXLSX(content, *effective)
		if err != nil {
			return nil, err
		}
		return &ParseResult{LunchMenus: menus}, nil

	default:
		return nil, appErrors.Clone(appErrors.ErrMenuFormat, "unknown menu document format: "+d.Extension)
	}
}

// ExtractContent implements Source. Menu documents carry no content.
func (s *Menu) ExtractContent(Descriptor, []byte) (string, error) {
	return "", appErrors.Clone(appErrors.ErrParseFailed, "menu documents have no content")
}
