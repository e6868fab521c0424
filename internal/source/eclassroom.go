package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gimvic/schedule-sync/internal/dateutil"
	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/internal/parser"
	"github.com/gimvic/schedule-sync/internal/tabular"
	"github.com/gimvic/schedule-sync/pkg/config"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

// EClassroom lists documents published in the school's e-classroom course
// through the Moodle webservice API. Substitutions and lunch schedules are
// parsed, DOCX circulars get their content extracted, everything else is
// only tracked.
type EClassroom struct {
	cfg    config.EClassroomConfig
	client *http.Client
}

// NewEClassroom constructs the e-classroom adapter.
func NewEClassroom(cfg config.EClassroomConfig, timeout time.Duration) *EClassroom {
	return &EClassroom{cfg: cfg, client: newHTTPClient(timeout)}
}

// Name implements Source.
func (s *EClassroom) Name() string { return "eclassroom" }

// Naming conventions for dated documents have drifted over the years, so the
// resolvers try an ordered list of patterns.
var (
	substitutionsDatePatterns = []dateutil.Pattern{
		{Regexp: regexp.MustCompile(`(?i)_obvestila_(\d+)\._(\d+)\._(\d+)\.pdf`), Build: dateutil.DMY(1, 2, 3)},
		{Regexp: regexp.MustCompile(`(?i)_obvestila_(\d+)\.(\d+)\.(\d+)\.pdf`), Build: dateutil.DMY(1, 2, 3)},
	}
	lunchScheduleDatePatterns = []dateutil.Pattern{
		{Regexp: regexp.MustCompile(`(\d+) *\. *(\d+) *\. *(\d+)`), Build: dateutil.DMY(1, 2, 3)},
	}
)

type moodleError struct {
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

type moodleSection struct {
	Modules []struct {
		Name     string `json:"name"`
		Contents []struct {
			FileURL      string `json:"fileurl"`
			TimeCreated  int64  `json:"timecreated"`
			TimeModified int64  `json:"timemodified"`
		} `json:"contents"`
	} `json:"modules"`
}

type moodleURLList struct {
	URLs []struct {
		Course       int    `json:"course"`
		Name         string `json:"name"`
		ExternalURL  string `json:"externalurl"`
		TimeModified int64  `json:"timemodified"`
	} `json:"urls"`
}

// List implements Source. It marks the course as viewed first so the token
// is not removed for inactivity, then enumerates both course files and
// external links.
func (s *EClassroom) List(ctx context.Context) ([]Descriptor, error) {
	if err := s.markCourseViewed(ctx); err != nil {
		return nil, err
	}

	internal, err := s.listInternal(ctx)
	if err != nil {
		return nil, err
	}
	external, err := s.listExternal(ctx)
	if err != nil {
		return nil, err
	}
	return append(internal, external...), nil
}

func (s *EClassroom) markCourseViewed(ctx context.Context) error {
	body, err := s.call(ctx, "core_course_view_course", url.Values{
		"courseid": {strconv.Itoa(s.cfg.Course)},
	})
	if err != nil {
		return err
	}
	if apiErr := moodleAPIError(body); apiErr != nil {
		return apiErr
	}
	return nil
}

func (s *EClassroom) listInternal(ctx context.Context) ([]Descriptor, error) {
	body, err := s.call(ctx, "core_course_get_contents", url.Values{
		"courseid": {strconv.Itoa(s.cfg.Course)},
	})
	if err != nil {
		return nil, err
	}
	if apiErr := moodleAPIError(body); apiErr != nil {
		return nil, apiErr
	}

	var sections []moodleSection
	if err := json.Unmarshal(body, &sections); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "malformed course contents response")
	}

	var docs []Descriptor
	for _, section := range sections {
		for _, module := range section.Modules {
			if len(module.Contents) == 0 {
				continue
			}
			docURL := s.normalizeURL(module.Contents[0].FileURL)
			created := time.Unix(module.Contents[0].TimeCreated, 0).UTC()
			modified := time.Unix(module.Contents[0].TimeModified, 0).UTC()
			docs = append(docs, Descriptor{
				URL:       docURL,
				Kind:      classifyURL(docURL),
				Title:     module.Name,
				Created:   &created,
				Modified:  &modified,
				Extension: urlExtension(docURL),
			})
		}
	}
	return docs, nil
}

func (s *EClassroom) listExternal(ctx context.Context) ([]Descriptor, error) {
	body, err := s.call(ctx, "mod_url_get_urls_by_courses", url.Values{})
	if err != nil {
		return nil, err
	}
	if apiErr := moodleAPIError(body); apiErr != nil {
		return nil, apiErr
	}

	var list moodleURLList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "malformed external urls response")
	}

	var docs []Descriptor
	for _, entry := range list.URLs {
		if entry.Course != s.cfg.Course {
			continue
		}
		docURL := s.normalizeURL(entry.ExternalURL)
		modified := time.Unix(entry.TimeModified, 0).UTC()
		docs = append(docs, Descriptor{
			URL:       docURL,
			Kind:      classifyURL(docURL),
			Title:     entry.Name,
			Created:   &modified,
			Modified:  &modified,
			Extension: urlExtension(docURL),
		})
	}
	return docs, nil
}

func (s *EClassroom) call(ctx context.Context, function string, form url.Values) ([]byte, error) {
	form.Set("wstoken", s.cfg.Token)
	form.Set("wsfunction", function)

	endpoint := s.cfg.WebserviceURL + "?moodlewsrestformat=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "building webservice request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "webservice unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "reading webservice response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrors.Clone(appErrors.ErrSourceUnavailable, fmt.Sprintf("webservice returned status %d", resp.StatusCode))
	}
	return body, nil
}

// moodleAPIError maps webservice error payloads onto the enumeration error
// taxonomy. Successful responses never carry an errorcode key.
func moodleAPIError(body []byte) *appErrors.Error {
	var apiErr moodleError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.ErrorCode == "" {
		return nil
	}
	switch apiErr.ErrorCode {
	case "invalidtoken":
		return appErrors.Clone(appErrors.ErrInvalidToken, apiErr.Message)
	case "invalidrecord":
		return appErrors.Clone(appErrors.ErrInvalidRecord, apiErr.Message)
	default:
		return appErrors.Clone(appErrors.ErrSourceUnavailable, apiErr.Message)
	}
}

// classifyURL assigns a document kind by well-known URL substrings.
func classifyURL(docURL string) models.DocumentKind {
	lower := strings.ToLower(docURL)
	switch {
	case strings.Contains(docURL, "www.dropbox.com"):
		return models.KindSubstitutions
	case strings.Contains(docURL, "delitevKosila"):
		return models.KindLunchSchedule
	case strings.Contains(lower, "okroznica") || strings.Contains(lower, "okrožnica"):
		return models.KindCircular
	default:
		return models.KindOther
	}
}

// normalizeURL converts a webservice pluginfile URL to its public form and
// rewrites file-sharing links to direct downloads.
func (s *EClassroom) normalizeURL(docURL string) string {
	docURL = strings.Replace(docURL, s.cfg.PluginFileWebserviceURL, s.cfg.PluginFileNormalURL, 1)
	docURL = strings.Replace(docURL, "?forcedownload=1", "", 1)
	return strings.Replace(docURL, "?dl=0", "?raw=1", 1)
}

// FetchURL implements Source. Pluginfile URLs are only downloadable through
// the webservice endpoint with the token attached.
func (s *EClassroom) FetchURL(docURL string) string {
	if strings.Contains(docURL, s.cfg.PluginFileNormalURL) {
		return strings.Replace(docURL, s.cfg.PluginFileNormalURL, s.cfg.PluginFileWebserviceURL, 1) + "?token=" + s.cfg.Token
	}
	return docURL
}

// NeedsParsing implements Source.
func (s *EClassroom) NeedsParsing(d Descriptor) bool {
	return d.Kind == models.KindSubstitutions || d.Kind == models.KindLunchSchedule
}

// NeedsContentExtraction implements Source.
func (s *EClassroom) NeedsContentExtraction(d Descriptor) bool {
	return d.Extension == "docx"
}

// Title implements Source. Parsable kinds get fixed titles, the rest keep
// their module or link name.
func (s *EClassroom) Title(d Descriptor) string {
	switch d.Kind {
	case models.KindSubstitutions:
		return "Nadomeščanja in obvestila"
	case models.KindLunchSchedule:
		return "Razpored kosila"
	default:
		return d.Title
	}
}

// EffectiveDate implements Source. Substitutions are dated by their URL,
// lunch schedules by the trailing date in their module title.
func (s *EClassroom) EffectiveDate(d Descriptor) (*time.Time, error) {
	switch d.Kind {
	case models.KindSubstitutions:
		date, err := dateutil.Resolve(substitutionsDatePatterns, d.URL)
		if err != nil {
			return nil, err
		}
		return &date, nil
	case models.KindLunchSchedule:
		title := d.Title
		if i := strings.LastIndex(title, ","); i >= 0 {
			title = title[i+1:]
		}
		if i := strings.LastIndex(title, "-"); i >= 0 {
			title = title[i+1:]
		}
		date, err := dateutil.Resolve(lunchScheduleDatePatterns, strings.TrimSpace(title))
		if err != nil {
			return nil, err
		}
		return &date, nil
	default:
		return nil, nil
	}
}

// Parse implements Source.
func (s *EClassroom) Parse(d Descriptor, content []byte, effective *time.Time) (*ParseResult, error) {
	switch d.Kind {
	case models.KindSubstitutions:
		if d.Extension != "pdf" {
			return nil, appErrors.Clone(appErrors.ErrSubstitutionsFormat, "unexpected substitutions format: "+d.Extension)
		}
		tables, err := tabular.ExtractPDF(content)
		if err != nil {
			return nil, err
		}
		subs, err := parser.Substitutions(tables, *effective)
		if err != nil {
			return nil, err
		}
		return &ParseResult{Substitutions: subs}, nil

	case models.KindLunchSchedule:
		if d.Extension != "pdf" {
			return nil, appErrors.Clone(appErrors.ErrLunchScheduleFormat, "unexpected lunch schedule format: "+d.Extension)
		}
		tables, err := tabular.ExtractPDF(content)
		if err != nil {
			return nil, err
		}
		slots, err := parser.LunchSchedule(tables)
		if err != nil {
			return nil, err
		}
		return &ParseResult{LunchSlots: slots}, nil

	default:
		return nil, appErrors.Clone(appErrors.ErrParseFailed, "document kind is not parsable: "+string(d.Kind))
	}
}

// ExtractContent implements Source. Only DOCX circulars carry content.
func (s *EClassroom) ExtractContent(d Descriptor, content []byte) (string, error) {
	return parser.CircularHTML(content)
}
