package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/testutil"
	"github.com/rs/zerolog"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func newMultipartContext(t *testing.T, path, filename string, data []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write(data)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func setupAttachmentHandler(t *testing.T, objects *testutil.MockObjectRepository) (*AttachmentHandler, *domain.Transaction) {
	store, _ := newTestStore(t)
	account, _ := service.NewAccountService(store).CreateAccount(service.CreateAccountInput{Name: "Cash"})
	transactions := service.NewTransactionService(store)
	tx, err := transactions.CreateTransaction(service.CreateTransactionInput{
		Type: domain.TransactionTypeExpense, Amount: mustDecimal("12"), Category: "Food", Description: "Lunch", AccountID: account.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	var attachments *service.AttachmentService
	if objects == nil {
		attachments = service.NewAttachmentService(transactions, nil, zerolog.Nop())
	} else {
		attachments = service.NewAttachmentService(transactions, objects, zerolog.Nop())
	}
	return NewAttachmentHandler(attachments, &recordingPublisher{}), tx
}

func TestUploadAttachment_Success(t *testing.T) {
	objects := testutil.NewMockObjectRepository()
	h, tx := setupAttachmentHandler(t, objects)

	c, rec := newMultipartContext(t, "/api/v1/transactions/x/attachment", "receipt.png", pngBytes(t, 800, 600))
	withID(c, tx.ID.String())
	if err := h.UploadAttachment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if updated.Attachment == nil {
		t.Fatal("Expected attachment key to be set")
	}
	if len(objects.Keys()) != 2 {
		t.Errorf("Expected display and original objects, got %v", objects.Keys())
	}

	c, rec = newJSONContext(http.MethodGet, "/api/v1/transactions/x/attachment", "")
	withID(c, tx.ID.String())
	if err := h.GetAttachmentURL(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var urlResp AttachmentURLResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &urlResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !strings.Contains(urlResp.URL, *updated.Attachment) {
		t.Errorf("Expected URL for %s, got %s", *updated.Attachment, urlResp.URL)
	}

	c, rec = newJSONContext(http.MethodDelete, "/api/v1/transactions/x/attachment", "")
	withID(c, tx.ID.String())
	if err := h.DeleteAttachment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if len(objects.Keys()) != 0 {
		t.Errorf("Expected objects to be removed, got %v", objects.Keys())
	}
}

func TestUploadAttachment_RejectsSmallImage(t *testing.T) {
	objects := testutil.NewMockObjectRepository()
	h, tx := setupAttachmentHandler(t, objects)

	c, rec := newMultipartContext(t, "/api/v1/transactions/x/attachment", "tiny.png", pngBytes(t, 10, 10))
	withID(c, tx.ID.String())
	if err := h.UploadAttachment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if len(objects.Keys()) != 0 {
		t.Errorf("Expected nothing stored, got %v", objects.Keys())
	}
}

func TestGetAttachmentURL_NoAttachment(t *testing.T) {
	h, tx := setupAttachmentHandler(t, testutil.NewMockObjectRepository())

	c, rec := newJSONContext(http.MethodGet, "/api/v1/transactions/x/attachment", "")
	withID(c, tx.ID.String())
	if err := h.GetAttachmentURL(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestAttachment_StorageNotConfigured(t *testing.T) {
	h, tx := setupAttachmentHandler(t, nil)

	c, rec := newMultipartContext(t, "/api/v1/transactions/x/attachment", "receipt.png", pngBytes(t, 100, 100))
	withID(c, tx.ID.String())
	if err := h.UploadAttachment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}
