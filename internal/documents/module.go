package documents

import (
	"net/http"

	"crm_portal_backend/internal/adapters/storage"
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/platform/httpkit"
	"crm_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Module is the customer documents bounded context module.
type Module struct {
	repo    *Repository
	storage *storage.Service
	bucket  string
	log     *logger.Logger
}

// NewModule creates and initializes the documents module. storage may be nil
// when MinIO is not configured; routes then respond 503.
func NewModule(pool *pgxpool.Pool, storageSvc *storage.Service, bucket string, log *logger.Logger) *Module {
	return &Module{
		repo:    NewRepository(pool),
		storage: storageSvc,
		bucket:  bucket,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "documents"
}

// RegisterRoutes mounts document routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/documents")
	group.POST("", m.upload)
	group.GET("/:id/download", m.download)
	group.GET("/by-fresh-lead/:freshLeadId", m.listByFreshLead)
	group.DELETE("/:id", m.remove)
}

func (m *Module) storageReady(c *gin.Context) bool {
	if m.storage == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "document storage is not configured", nil)
		return false
	}
	return true
}

// upload stores a document binary and its metadata.
// POST /api/v1/documents
func (m *Module) upload(c *gin.Context) {
	if !m.storageReady(c) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file upload", nil)
		return
	}

	var freshLeadID *uuid.UUID
	if raw := c.PostForm("freshLeadId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid freshLeadId", nil)
			return
		}
		freshLeadID = &id
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable file upload", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	objectKey, err := m.storage.Upload(c.Request.Context(), m.bucket, "customer-documents",
		fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	doc, err := m.repo.Create(c.Request.Context(), Document{
		FreshLeadID: freshLeadID,
		UploadedBy:  identity.UserID(),
		FileName:    fileHeader.Filename,
		ObjectKey:   objectKey,
		ContentType: contentType,
		SizeBytes:   fileHeader.Size,
	})
	if httpkit.HandleError(c, err) {
		// Metadata write failed; drop the orphaned object.
		if delErr := m.storage.Delete(c.Request.Context(), m.bucket, objectKey); delErr != nil {
			m.log.Warn("orphaned object cleanup failed", "object_key", objectKey, "error", delErr.Error())
		}
		return
	}
	httpkit.Created(c, doc)
}

// download redirects to a presigned URL for the binary.
// GET /api/v1/documents/:id/download
func (m *Module) download(c *gin.Context) {
	if !m.storageReady(c) {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	doc, err := m.repo.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	url, err := m.storage.PresignDownload(c.Request.Context(), m.bucket, doc.ObjectKey)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "download link generation failed", nil)
		return
	}
	httpkit.OK(c, gin.H{"url": url})
}

type documentWithURL struct {
	Document
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// listByFreshLead returns all documents attached to a fresh lead, each with a
// presigned download link when storage is available.
// GET /api/v1/documents/by-fresh-lead/:freshLeadId
func (m *Module) listByFreshLead(c *gin.Context) {
	freshLeadID, err := uuid.Parse(c.Param("freshLeadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid freshLeadId", nil)
		return
	}
	items, err := m.repo.ListByFreshLead(c.Request.Context(), freshLeadID)
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]documentWithURL, len(items))
	for i, item := range items {
		result[i] = documentWithURL{Document: item}
	}

	if m.storage != nil {
		g, gctx := errgroup.WithContext(c.Request.Context())
		g.SetLimit(5)
		for i := range result {
			i := i
			g.Go(func() error {
				url, err := m.storage.PresignDownload(gctx, m.bucket, result[i].ObjectKey)
				if err != nil {
					m.log.Warn("presign failed", "object_key", result[i].ObjectKey, "error", err.Error())
					return nil
				}
				result[i].DownloadURL = url
				return nil
			})
		}
		_ = g.Wait()
	}

	httpkit.OK(c, result)
}

// remove deletes the metadata row and the stored binary.
// DELETE /api/v1/documents/:id
func (m *Module) remove(c *gin.Context) {
	if !m.storageReady(c) {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	doc, err := m.repo.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	if err := m.repo.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	if err := m.storage.Delete(c.Request.Context(), m.bucket, doc.ObjectKey); err != nil {
		m.log.Warn("stored object deletion failed", "object_key", doc.ObjectKey, "error", err.Error())
	}
	c.Status(http.StatusNoContent)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
