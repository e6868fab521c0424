package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/pkg/config"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

func eclassroomConfig(serverURL string) config.EClassroomConfig {
	return config.EClassroomConfig{
		WebserviceURL:           serverURL + "/webservice/rest/server.php",
		Token:                   "secret-token",
		Course:                  12,
		PluginFileWebserviceURL: serverURL + "/webservice/pluginfile.php",
		PluginFileNormalURL:     serverURL + "/pluginfile.php",
	}
}

func TestEClassroomList(t *testing.T) {
	var viewed bool
	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "secret-token", r.FormValue("wstoken"))

		switch r.FormValue("wsfunction") {
		case "core_course_view_course":
			viewed = true
			fmt.Fprint(w, `[]`)
		case "core_course_get_contents":
			fmt.Fprintf(w, `[{"modules":[
				{"name":"Okrožnica 12","contents":[{"fileurl":"%s/webservice/pluginfile.php/1/okroznica-12.docx?forcedownload=1","timecreated":1709500000,"timemodified":1709500000}]},
				{"name":"Razpored kosil - 4. 3. 2024","contents":[{"fileurl":"%s/webservice/pluginfile.php/2/delitevKosila.pdf?forcedownload=1","timecreated":1709500000,"timemodified":1709500060}]}
			]}]`, server.URL, server.URL)
		case "mod_url_get_urls_by_courses":
			fmt.Fprint(w, `{"urls":[
				{"course":12,"name":"Nadomeščanja","externalurl":"https://www.dropbox.com/s/abc/nadomescanje_obvestila_4._3._2024.pdf?dl=0","timemodified":1709500000},
				{"course":99,"name":"Tuji tečaj","externalurl":"https://example.com/other.pdf","timemodified":1709500000}
			]}`)
		default:
			t.Fatalf("unexpected wsfunction %q", r.FormValue("wsfunction"))
		}
	}))
	defer server.Close()

	adapter := NewEClassroom(eclassroomConfig(server.URL), time.Second)
	docs, err := adapter.List(context.Background())
	require.NoError(t, err)
	require.True(t, viewed)
	require.Len(t, docs, 3)

	assert.Equal(t, models.KindCircular, docs[0].Kind)
	assert.Equal(t, server.URL+"/pluginfile.php/1/okroznica-12.docx", docs[0].URL)
	assert.Equal(t, "docx", docs[0].Extension)

	assert.Equal(t, models.KindLunchSchedule, docs[1].Kind)
	assert.Equal(t, "Razpored kosil - 4. 3. 2024", docs[1].Title)

	assert.Equal(t, models.KindSubstitutions, docs[2].Kind)
	assert.Equal(t, "https://www.dropbox.com/s/abc/nadomescanje_obvestila_4._3._2024.pdf?raw=1", docs[2].URL)
	assert.Equal(t, "pdf", docs[2].Extension)
}

func TestEClassroomListInvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("wsfunction") == "core_course_view_course" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `{"errorcode":"invalidtoken","message":"Invalid token"}`)
	}))
	defer server.Close()

	adapter := NewEClassroom(eclassroomConfig(server.URL), time.Second)
	_, err := adapter.List(context.Background())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErr.Code)
}

func TestEClassroomListUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := NewEClassroom(eclassroomConfig(server.URL), time.Second)
	_, err := adapter.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSourceUnavailable.Code, appErrors.FromError(err).Code)
}

func TestEClassroomEffectiveDate(t *testing.T) {
	adapter := NewEClassroom(eclassroomConfig("http://host"), time.Second)

	subs := Descriptor{
		Kind: models.KindSubstitutions,
		URL:  "https://www.dropbox.com/s/abc/nadomescanje_obvestila_4._3._2024.pdf?raw=1",
	}
	date, err := adapter.EffectiveDate(subs)
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), *date)

	lunch := Descriptor{
		Kind:  models.KindLunchSchedule,
		Title: "Razpored kosil, teden - 4. 3. 2024",
	}
	date, err = adapter.EffectiveDate(lunch)
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), *date)

	unknown := Descriptor{Kind: models.KindSubstitutions, URL: "https://www.dropbox.com/s/abc/razpored.pdf"}
	_, err = adapter.EffectiveDate(unknown)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownDateFormat.Code, appErrors.FromError(err).Code)

	other := Descriptor{Kind: models.KindOther, URL: "https://host/file.pdf"}
	date, err = adapter.EffectiveDate(other)
	require.NoError(t, err)
	assert.Nil(t, date)
}

func TestEClassroomFetchURL(t *testing.T) {
	adapter := NewEClassroom(eclassroomConfig("http://host"), time.Second)

	tokenized := adapter.FetchURL("http://host/pluginfile.php/1/doc.docx")
	assert.Equal(t, "http://host/webservice/pluginfile.php/1/doc.docx?token=secret-token", tokenized)

	passthrough := adapter.FetchURL("https://www.dropbox.com/s/abc/doc.pdf?raw=1")
	assert.Equal(t, "https://www.dropbox.com/s/abc/doc.pdf?raw=1", passthrough)
}

func TestEClassroomTitles(t *testing.T) {
	adapter := NewEClassroom(eclassroomConfig("http://host"), time.Second)

	assert.Equal(t, "Nadomeščanja in obvestila", adapter.Title(Descriptor{Kind: models.KindSubstitutions, Title: "whatever"}))
	assert.Equal(t, "Razpored kosila", adapter.Title(Descriptor{Kind: models.KindLunchSchedule}))
	assert.Equal(t, "Okrožnica 12", adapter.Title(Descriptor{Kind: models.KindCircular, Title: "Okrožnica 12"}))
}

func TestEClassroomNeedsParsing(t *testing.T) {
	adapter := NewEClassroom(eclassroomConfig("http://host"), time.Second)

	assert.True(t, adapter.NeedsParsing(Descriptor{Kind: models.KindSubstitutions}))
	assert.True(t, adapter.NeedsParsing(Descriptor{Kind: models.KindLunchSchedule}))
	assert.False(t, adapter.NeedsParsing(Descriptor{Kind: models.KindCircular}))

	assert.True(t, adapter.NeedsContentExtraction(Descriptor{Kind: models.KindCircular, Extension: "docx"}))
	assert.False(t, adapter.NeedsContentExtraction(Descriptor{Kind: models.KindOther, Extension: "pdf"}))
}
