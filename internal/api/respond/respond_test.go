package respond_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Behyna/sms-services/messagegateway/internal/api/respond"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		respond.SetRequestID(c, "req-7")
		return handler(c)
	})
	return app
}

func call(t *testing.T, app *fiber.App) (int, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-7", resp.Header.Get(respond.HeaderRequestID))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func TestSuccess(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error {
		return respond.Success(c, fiber.StatusCreated, map[string]int{"id": 1}, envelope.WithMessage("created"))
	})

	status, body := call(t, app)

	assert.Equal(t, fiber.StatusCreated, status)
	env, err := envelope.DecodeSuccess[map[string]int](body)
	require.NoError(t, err)
	assert.Equal(t, 1, env.Data["id"])
	require.NotNil(t, env.RequestID)
	assert.Equal(t, "req-7", *env.RequestID)
}

func TestPaginated(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error {
		return respond.Paginated(c, []string{}, envelope.NewPaginationParams(1, 10, 0))
	})

	status, body := call(t, app)

	assert.Equal(t, fiber.StatusOK, status)
	env, err := envelope.DecodePaginated[string](body)
	require.NoError(t, err)
	assert.Empty(t, env.Data)
	assert.Equal(t, 10, env.Pagination.PageSize)
}

func TestEmpty(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error {
		return respond.Empty(c, "deleted")
	})

	status, body := call(t, app)

	assert.Equal(t, fiber.StatusOK, status)
	env, err := envelope.DecodeEmpty(body)
	require.NoError(t, err)
	require.NotNil(t, env.Message)
	assert.Equal(t, "deleted", *env.Message)
}

func TestError(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error {
		return respond.Error(c, envelope.NewError("NOT_FOUND", "Resource missing", 404))
	})

	status, body := call(t, app)

	assert.Equal(t, fiber.StatusNotFound, status)
	env, err := envelope.DecodeError(body)
	require.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", env.Err.Code)
	require.NotNil(t, env.Err.RequestID)
	assert.Equal(t, "req-7", *env.Err.RequestID)
}
