package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/team0101/shoes-shop/internal/logging"
	"github.com/team0101/shoes-shop/internal/models"
)

// CatalogHandler serves the plain lookup tables: branches, manufacturers,
// customers, employees. All of it is single-table CRUD.
type CatalogHandler struct {
	DB *gorm.DB
}

func (h *CatalogHandler) list(c echo.Context, dest any, name string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_"+name)

	if err := h.DB.WithContext(ctx).Order("id ASC").Find(dest).Error; err != nil {
		l.Error("list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list "+name)
	}
	return c.JSON(http.StatusOK, dest)
}

func (h *CatalogHandler) get(c echo.Context, dest any, name string) error {
	ctx := c.Request().Context()

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.DB.WithContext(ctx).First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, name+" not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read "+name)
	}
	return c.JSON(http.StatusOK, dest)
}

func (h *CatalogHandler) create(c echo.Context, dest any, name string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_"+name)

	if err := c.Bind(dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.DB.WithContext(ctx).Create(dest).Error; err != nil {
		l.Error("create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create "+name)
	}
	return c.JSON(http.StatusCreated, dest)
}

func (h *CatalogHandler) remove(c echo.Context, model any, name string) error {
	ctx := c.Request().Context()

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	res := h.DB.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete "+name)
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, name+" not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListBranches(c echo.Context) error {
	return h.list(c, &[]models.Branch{}, "branches")
}

func (h *CatalogHandler) GetBranch(c echo.Context) error {
	return h.get(c, &models.Branch{}, "branch")
}

func (h *CatalogHandler) CreateBranch(c echo.Context) error {
	return h.create(c, &models.Branch{}, "branch")
}

func (h *CatalogHandler) DeleteBranch(c echo.Context) error {
	return h.remove(c, &models.Branch{}, "branch")
}

func (h *CatalogHandler) ListManufacturers(c echo.Context) error {
	return h.list(c, &[]models.Manufacturer{}, "manufacturers")
}

func (h *CatalogHandler) GetManufacturer(c echo.Context) error {
	return h.get(c, &models.Manufacturer{}, "manufacturer")
}

func (h *CatalogHandler) CreateManufacturer(c echo.Context) error {
	return h.create(c, &models.Manufacturer{}, "manufacturer")
}

func (h *CatalogHandler) DeleteManufacturer(c echo.Context) error {
	return h.remove(c, &models.Manufacturer{}, "manufacturer")
}

func (h *CatalogHandler) ListCustomers(c echo.Context) error {
	return h.list(c, &[]models.Customer{}, "customers")
}

func (h *CatalogHandler) GetCustomer(c echo.Context) error {
	return h.get(c, &models.Customer{}, "customer")
}

func (h *CatalogHandler) CreateCustomer(c echo.Context) error {
	return h.create(c, &models.Customer{}, "customer")
}

func (h *CatalogHandler) DeleteCustomer(c echo.Context) error {
	return h.remove(c, &models.Customer{}, "customer")
}

func (h *CatalogHandler) ListEmployees(c echo.Context) error {
	return h.list(c, &[]models.Employee{}, "employees")
}

func (h *CatalogHandler) GetEmployee(c echo.Context) error {
	return h.get(c, &models.Employee{}, "employee")
}

func (h *CatalogHandler) CreateEmployee(c echo.Context) error {
	return h.create(c, &models.Employee{}, "employee")
}

func (h *CatalogHandler) DeleteEmployee(c echo.Context) error {
	return h.remove(c, &models.Employee{}, "employee")
}
