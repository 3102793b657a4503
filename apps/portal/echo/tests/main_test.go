package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	echoapi "github.com/trezcool/wasilisha/apps/portal/echo"
	"github.com/trezcool/wasilisha/core"
	"github.com/trezcool/wasilisha/core/assignment"
	"github.com/trezcool/wasilisha/core/submission"
	"github.com/trezcool/wasilisha/core/user"
	emailsvc "github.com/trezcool/wasilisha/services/email"
	logsvc "github.com/trezcool/wasilisha/services/logger"
	dummydb "github.com/trezcool/wasilisha/storage/database/dummy"
	dummyfs "github.com/trezcool/wasilisha/storage/files/dummy"
)

var (
	db             *dummydb.DB
	app            echoapi.Server
	usrRepo        user.Repository
	assignmentRepo assignment.Repository
	submissionRepo submission.Repository
	fileStore      *dummyfs.Store

	errMissingToken  = httpErr{Error: "missing or malformed jwt"}
	errForbiddenRole = httpErr{Error: "access denied for your role"}
)

func TestMain(m *testing.M) {
	core.Conf.Set("debug", false)
	core.Conf.Set("testMode", true)

	// set up DB, repos & file store
	var err error
	if db, err = dummydb.Open(); err != nil {
		log.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	assignmentRepo = dummydb.NewAssignmentRepository(db)
	submissionRepo = dummydb.NewSubmissionRepository(db)
	fileStore = dummyfs.NewStore()

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(usrRepo, mailSvc)
	assignmentSvc := assignment.NewService(assignmentRepo)
	submissionSvc := submission.NewService(submissionRepo, fileStore, assignmentSvc, mailSvc)

	// set up server
	app = echoapi.NewServer(
		&echoapi.Options{
			DisableReqLogs: true,
			Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
			UserSvc:        usrSvc,
			AssignmentSvc:  assignmentSvc,
			SubmissionSvc:  submissionSvc,
		},
	)

	os.Exit(m.Run())
}

func resetState() {
	db.Reset()
	fileStore.Reset()
	emailsvc.SentMessages = nil
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newUploadRequest builds the multipart submission form a student's browser sends.
func newUploadRequest(t *testing.T, token, assignmentID, fileName string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if assignmentID != "" {
		if err := w.WriteField("assignment_id", assignmentID); err != nil {
			t.Fatalf("WriteField(): %v", err)
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("pdf_file", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile(): %v", err)
		}
		if _, err = part.Write(content); err != nil {
			t.Fatalf("part.Write(): %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart.Close(): %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/student", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v; body %s", err, rec.Body.String())
	}
}

var pdfBytes = []byte("%PDF-1.4\n%%EOF\n")

func submitPDF(t *testing.T, student user.User, assignmentID int, fileName string) submission.Submission {
	sub, err := submission.NewService(submissionRepo, fileStore, assignment.NewService(assignmentRepo), emailsvc.NewConsoleServiceMock()).
		Submit(student, assignmentID, submission.Upload{
			Filename: fileName,
			File:     bytes.NewReader(pdfBytes),
			Size:     int64(len(pdfBytes)),
		})
	if err != nil {
		t.Fatalf("submitPDF(): %v", err)
	}
	return sub
}
