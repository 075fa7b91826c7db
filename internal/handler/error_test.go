package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	t.Run("success - api errors are written as json", func(t *testing.T) {
		// arrange
		e := echo.New()
		e.JSONSerializer = GoJSONSerializer{}
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/toggle-pin", nil), rec)

		// act
		ErrorHandler(echo.NewHTTPError(http.StatusForbidden, "Access denied. Manager privileges required."), c)

		// assert
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Access denied. Manager privileges required."}`, rec.Body.String())
	})
	t.Run("success - page errors are rendered as html", func(t *testing.T) {
		// arrange
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/manager", nil), rec)

		// act
		ErrorHandler(echo.NewHTTPError(http.StatusForbidden, "Access denied. This page is only accessible to Managers."), c)

		// assert
		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "<html")
		assert.Contains(t, body, "403 - Forbidden")
		assert.Contains(t, body, "Access denied. This page is only accessible to Managers.")
	})
	t.Run("success - plain errors become 500", func(t *testing.T) {
		// arrange
		e := echo.New()
		e.JSONSerializer = GoJSONSerializer{}
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/add-resource", nil), rec)

		// act
		ErrorHandler(errors.New("boom"), c)

		// assert
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Something went wrong"}`, rec.Body.String())
	})
	t.Run("success - committed responses are left alone", func(t *testing.T) {
		// arrange
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		assert.NoError(t, c.String(http.StatusOK, "done"))

		// act
		ErrorHandler(errors.New("late"), c)

		// assert
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "done", rec.Body.String())
	})
}

func TestGoJSONSerializer_Deserialize(t *testing.T) {
	t.Run("failure - malformed body is a bad request", func(t *testing.T) {
		// arrange
		e := echo.New()
		c := e.NewContext(newJSONRequest("/api/toggle-pin", `{"resourceId":}`), httptest.NewRecorder())
		rp := new(ResourceParams)

		// act
		err := GoJSONSerializer{}.Deserialize(c, rp)

		// assert
		var he *echo.HTTPError
		if assert.ErrorAs(t, err, &he) {
			assert.Equal(t, http.StatusBadRequest, he.Code)
		}
	})
	t.Run("failure - wrong type is a bad request", func(t *testing.T) {
		// arrange
		e := echo.New()
		c := e.NewContext(newJSONRequest("/api/toggle-pin", `{"resourceId":"seven"}`), httptest.NewRecorder())
		rp := new(ResourceParams)

		// act
		err := GoJSONSerializer{}.Deserialize(c, rp)

		// assert
		var he *echo.HTTPError
		if assert.ErrorAs(t, err, &he) {
			assert.Equal(t, http.StatusBadRequest, he.Code)
		}
	})
}
