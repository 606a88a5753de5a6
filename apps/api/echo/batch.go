package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
)

type batchApi struct {
	svc      *batch.Service
	validate *validator.Validate
}

func registerBatchAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *batch.Service, validate *validator.Validate) {
	api := batchApi{
		svc:      svc,
		validate: validate,
	}

	bg := g.Group("/batches", jwt, requireAdminRoles(RoleAdminScheduler))
	bg.POST("", api.create)

	dg := bg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.GET("/items", api.preview)
	dg.POST("/generate", api.generate)

	rg := dg.Group("/rows/:row")
	rg.PATCH("", api.updateField)
	rg.DELETE("", api.removeRow)
	rg.PUT("/grouping", api.toggleGrouping)
	rg.PUT("/common-registration", api.toggleCommonRegistration)
	rg.POST("/combinations", api.addCombination)

	cg := rg.Group("/combinations/:combo")
	cg.DELETE("", api.removeCombination)
	cg.PUT("/majors", api.updateCombinationMajor)
	cg.PUT("/class-size", api.updateCombinationClassSize)
}

// Handlers

func (api *batchApi) create(ctx echo.Context) error {
	var data batch.NewBatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBatch")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var (
		view batch.View
		err  error
	)
	if len(data.Rows) > 0 {
		view, err = api.svc.Create(data.Selection, data.BatchRows())
	} else {
		view, err = api.svc.Load(ctx.Request().Context(), data.Selection)
	}
	if err != nil {
		return errors.Wrap(err, "creating batch")
	}

	return ctx.JSON(http.StatusCreated, view)
}

func (api *batchApi) retrieve(ctx echo.Context) error {
	view, err := api.svc.Get(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting batch")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *batchApi) destroy(ctx echo.Context) error {
	if err := api.svc.Discard(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "discarding batch")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *batchApi) preview(ctx echo.Context) error {
	items, err := api.svc.Preview(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "serializing batch")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *batchApi) generate(ctx echo.Context) error {
	sub, err := api.svc.Generate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "generating schedule")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *batchApi) updateField(ctx echo.Context) error {
	row, err := rowParam(ctx)
	if err != nil {
		return err
	}
	var data batch.FieldUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FieldUpdate")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	return api.respond(ctx)(api.svc.UpdateField(ctx.Param("id"), row, data))
}

func (api *batchApi) removeRow(ctx echo.Context) error {
	row, err := rowParam(ctx)
	if err != nil {
		return err
	}
	return api.respond(ctx)(api.svc.RemoveRow(ctx.Param("id"), row))
}

func (api *batchApi) toggleGrouping(ctx echo.Context) error {
	row, err := rowParam(ctx)
	if err != nil {
		return err
	}
	var data batch.Toggle
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Toggle")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	return api.respond(ctx)(api.svc.ToggleGrouping(ctx.Param("id"), row, data))
}

func (api *batchApi) toggleCommonRegistration(ctx echo.Context) error {
	row, err := rowParam(ctx)
	if err != nil {
		return err
	}
	var data batch.Toggle
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Toggle")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	return api.respond(ctx)(api.svc.ToggleCommonRegistration(ctx.Param("id"), row, data))
}

func (api *batchApi) addCombination(ctx echo.Context) error {
	row, err := rowParam(ctx)
	if err != nil {
		return err
	}
	return api.respond(ctx)(api.svc.AddCombination(ctx.Param("id"), row))
}

func (api *batchApi) removeCombination(ctx echo.Context) error {
	row, err := rowParam(ctx)
	if err != nil {
		return err
	}
	return api.respond(ctx)(api.svc.RemoveCombination(ctx.Param("id"), row, ctx.Param("combo")))
}

func (api *batchApi) updateCombinationMajor(ctx echo.Context) error {
	row, err := rowParam(ctx)
	if err != nil {
		return err
	}
	var data batch.MajorUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MajorUpdate")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	return api.respond(ctx)(api.svc.UpdateCombinationMajor(ctx.Param("id"), row, ctx.Param("combo"), data))
}

func (api *batchApi) updateCombinationClassSize(ctx echo.Context) error {
	row, err := rowParam(ctx)
	if err != nil {
		return err
	}
	var data batch.ClassSizeUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ClassSizeUpdate")
	}
	return api.respond(ctx)(api.svc.UpdateCombinationClassSize(ctx.Param("id"), row, ctx.Param("combo"), data))
}

// Helpers

// respond renders the batch view returned by an edit.
func (api *batchApi) respond(ctx echo.Context) func(batch.View, error) error {
	return func(view batch.View, err error) error {
		if err != nil {
			return errors.Wrap(err, "editing batch")
		}
		return ctx.JSON(http.StatusOK, view)
	}
}

func rowParam(ctx echo.Context) (batch.RowID, error) {
	id, err := strconv.Atoi(ctx.Param("row"))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return batch.RowID(id), nil
}
