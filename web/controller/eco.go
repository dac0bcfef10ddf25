package controller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"eco-ui/util/random"
	"eco-ui/web/entity"
	"eco-ui/web/middleware"
	"eco-ui/web/service"

	"github.com/gin-gonic/gin"
)

type EcoController struct {
	ecos    *service.EcoService
	reports *service.ReportService
}

func NewEcoController(authed *gin.RouterGroup, ecos *service.EcoService, reports *service.ReportService) *EcoController {
	e := &EcoController{ecos: ecos, reports: reports}

	g := authed.Group("/ecos")
	{
		g.POST("", e.create)
		g.GET("", e.list)
		g.GET("/:id", e.details)
		g.PUT("/:id", e.update)
		g.DELETE("/:id", middleware.RequireAdmin(), e.delete)
		g.POST("/:id/submit", e.submit)
		g.POST("/:id/approve", e.approve)
		g.POST("/:id/reject", e.reject)
		g.GET("/:id/report", e.report)
	}
	return e
}

// actor derives the trusted workflow actor from the authenticated user.
func actor(c *gin.Context) service.TrustedActor {
	return service.TrustedActor(middleware.GetUser(c).Username)
}

func ecoId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid ECO id")
		return 0, false
	}
	return id, true
}

func (e *EcoController) create(c *gin.Context) {
	var form entity.EcoForm
	if err := c.ShouldBindJSON(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "title and description are required")
		return
	}
	id, err := e.ecos.CreateEco(form.Title, form.Description, actor(c))
	if err != nil {
		jsonMsg(c, "create ECO", err)
		return
	}
	c.JSON(http.StatusCreated, entity.Msg{Success: true, Msg: "ECO created", Obj: gin.H{"ecoId": id}})
}

func (e *EcoController) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	query := service.ListQuery{
		Limit:  limit,
		Offset: offset,
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	items, err := e.ecos.ListEcos(query)
	if err != nil {
		jsonMsg(c, "list ECOs", err)
		return
	}
	jsonObj(c, items, nil)
}

func (e *EcoController) details(c *gin.Context) {
	id, ok := ecoId(c)
	if !ok {
		return
	}
	details, err := e.ecos.GetEcoDetails(id)
	if err != nil {
		jsonMsg(c, "get ECO", err)
		return
	}
	jsonObj(c, details, nil)
}

func (e *EcoController) update(c *gin.Context) {
	id, ok := ecoId(c)
	if !ok {
		return
	}
	var form entity.EcoForm
	if err := c.ShouldBindJSON(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "title and description are required")
		return
	}
	if err := e.ecos.UpdateEco(id, form.Title, form.Description, actor(c)); err != nil {
		jsonMsg(c, "update ECO", err)
		return
	}
	jsonMsg(c, "ECO updated", nil)
}

func (e *EcoController) delete(c *gin.Context) {
	id, ok := ecoId(c)
	if !ok {
		return
	}
	if err := e.ecos.DeleteEco(id); err != nil {
		jsonMsg(c, "delete ECO", err)
		return
	}
	jsonMsg(c, "ECO deleted", nil)
}

func (e *EcoController) submit(c *gin.Context) {
	id, ok := ecoId(c)
	if !ok {
		return
	}
	var form entity.ActionForm
	_ = c.ShouldBindJSON(&form)
	if err := e.ecos.SubmitEco(id, actor(c), form.Comment); err != nil {
		jsonMsg(c, "submit ECO", err)
		return
	}
	jsonMsg(c, "ECO submitted", nil)
}

func (e *EcoController) approve(c *gin.Context) {
	id, ok := ecoId(c)
	if !ok {
		return
	}
	var form entity.ActionForm
	_ = c.ShouldBindJSON(&form)
	if err := e.ecos.ApproveEco(id, actor(c), form.Comment); err != nil {
		jsonMsg(c, "approve ECO", err)
		return
	}
	jsonMsg(c, "ECO approved", nil)
}

// reject requires a comment. The check lives here, not in the service; the
// store itself accepts any comment value.
func (e *EcoController) reject(c *gin.Context) {
	id, ok := ecoId(c)
	if !ok {
		return
	}
	var form entity.ActionForm
	_ = c.ShouldBindJSON(&form)
	if form.Comment == "" {
		pureJsonMsg(c, http.StatusBadRequest, false, "comment required for rejection")
		return
	}
	if err := e.ecos.RejectEco(id, actor(c), form.Comment); err != nil {
		jsonMsg(c, "reject ECO", err)
		return
	}
	jsonMsg(c, "ECO rejected", nil)
}

// report renders the markdown report to an ephemeral file, serves it as a
// download and removes it afterwards.
func (e *EcoController) report(c *gin.Context) {
	id, ok := ecoId(c)
	if !ok {
		return
	}
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("eco_%d_report_%s.md", id, random.Seq(8)))
	if err := e.reports.GenerateReport(id, tmpPath); err != nil {
		jsonMsg(c, "generate report", err)
		return
	}
	defer os.Remove(tmpPath)
	c.FileAttachment(tmpPath, fmt.Sprintf("eco_%d_report.md", id))
}
