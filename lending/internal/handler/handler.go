package handler

import (
	"net/http"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	_ "github.com/Astemirdum/library-lending/lending/swagger"
	"github.com/Astemirdum/library-lending/pkg/auth"
	md "github.com/Astemirdum/library-lending/pkg/middleware"
	"github.com/Astemirdum/library-lending/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	lendingSvc LendingService
	log        *zap.Logger
}

func New(lendingSvc LendingService, log *zap.Logger) *Handler {
	return &Handler{
		lendingSvc: lendingSvc,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.AuthContext,
	)

	api.POST("/loans", h.Borrow)
	api.GET("/loans", h.ListLoans)
	api.GET("/loans/:loanUid", h.GetLoan)
	api.POST("/loans/:loanUid/return", h.ReturnBook)
	api.POST("/loans/:loanUid/renew", h.Renew)
	api.POST("/loans/:loanUid/lost", h.MarkLost, md.RequireStaff)
	api.PATCH("/loans/:loanUid/fine", h.AdjustFine, md.RequireAdmin)

	api.GET("/fines", h.ListFines)

	api.GET("/titles/:titleUid/availability", h.Availability)
	api.PUT("/titles/:titleUid/copies", h.SetTotalCopies, md.RequireStaff)

	api.GET("/stats", h.Stats, md.RequireAdmin)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

type BorrowRequest struct {
	TitleUid string     `json:"titleUid" validate:"required"`
	UserID   string     `json:"userId"`
	DueDate  *time.Time `json:"dueDate"`
	Notes    string     `json:"notes" validate:"max=500"`
}

func (h *Handler) Borrow(c echo.Context) error {
	var req BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	userID, err := h.subject(c, req.UserID)
	if err != nil {
		return err
	}
	loan, err := h.lendingSvc.Borrow(ctx, userID, req.TitleUid, req.DueDate, req.Notes)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ListLoans(c echo.Context) error {
	userID, err := h.subject(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}
	loans, err := h.lendingSvc.ListLoans(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) GetLoan(c echo.Context) error {
	loan, err := h.ownLoan(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loan)
}

type ReturnRequest struct {
	Condition      model.Condition `json:"condition" validate:"required,oneof=good damaged lost"`
	AdditionalFine model.Money     `json:"additionalFine" validate:"gte=0"`
	Notes          string          `json:"notes" validate:"max=500"`
}

func (h *Handler) ReturnBook(c echo.Context) error {
	var req ReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	if req.AdditionalFine > 0 && !auth.IsStaff(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "only staff may charge an additional fine")
	}
	if req.Condition == model.ConditionLost && !auth.IsStaff(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "only staff may declare a copy lost")
	}
	loan, err := h.ownLoan(c)
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.ReturnBook(ctx, loan.ID, req.Condition, req.AdditionalFine, req.Notes)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Renew(c echo.Context) error {
	loan, err := h.ownLoan(c)
	if err != nil {
		return err
	}
	renewed, err := h.lendingSvc.Renew(c.Request().Context(), loan.ID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, renewed)
}

type NotesRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

func (h *Handler) MarkLost(c echo.Context) error {
	var req NotesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.lendingSvc.MarkLost(c.Request().Context(), c.Param("loanUid"), req.Notes)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

type AdjustFineRequest struct {
	Delta model.Money `json:"delta" validate:"required"`
	Notes string      `json:"notes" validate:"required,max=500"`
}

func (h *Handler) AdjustFine(c echo.Context) error {
	var req AdjustFineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loan, err := h.lendingSvc.AdjustFine(c.Request().Context(), c.Param("loanUid"), req.Delta, req.Notes)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) ListFines(c echo.Context) error {
	userID, err := h.subject(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}
	fines, err := h.lendingSvc.ListFines(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, fines)
}

func (h *Handler) Availability(c echo.Context) error {
	avail, err := h.lendingSvc.Availability(c.Request().Context(), c.Param("titleUid"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, avail)
}

type CopiesRequest struct {
	TotalCopies *int `json:"totalCopies" validate:"required"`
}

func (h *Handler) SetTotalCopies(c echo.Context) error {
	var req CopiesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	avail, err := h.lendingSvc.SetTotalCopies(c.Request().Context(), c.Param("titleUid"), *req.TotalCopies)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, avail)
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.lendingSvc.Stats(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, st)
}

// subject is the borrower a request acts for: the caller, or anyone when staff asks.
func (h *Handler) subject(c echo.Context, requested string) (string, error) {
	ctx := c.Request().Context()
	userName, err := auth.GetUserName(ctx)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if requested == "" || requested == userName {
		return userName, nil
	}
	if !auth.IsStaff(ctx) {
		return "", echo.NewHTTPError(http.StatusForbidden, "acting for another user requires staff role")
	}
	return requested, nil
}

// ownLoan loads the loan in the path and checks the caller may act on it.
func (h *Handler) ownLoan(c echo.Context) (model.LoanInfo, error) {
	ctx := c.Request().Context()
	loan, err := h.lendingSvc.GetLoan(ctx, c.Param("loanUid"))
	if err != nil {
		return model.LoanInfo{}, h.httpError(err)
	}
	if auth.IsStaff(ctx) {
		return loan, nil
	}
	if userName, _ := auth.GetUserName(ctx); userName != loan.UserID {
		return model.LoanInfo{}, echo.NewHTTPError(http.StatusForbidden, "loan belongs to another user")
	}
	return loan, nil
}

func (h *Handler) httpError(err error) error {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errs.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errs.KindInvalidInput:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errs.KindInvariant:
		h.log.Error("invariant violated", zap.Error(err))
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
