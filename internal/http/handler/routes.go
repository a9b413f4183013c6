package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-hclog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"studentapi/internal/http/middleware"
	"studentapi/internal/model"
	"studentapi/internal/service"
)

const (
	statusOK      = "OK"
	statusWritten = "ok"
	healthTimeout = 2 * time.Second
)

// Pinger is the part of *mongo.Client the health check needs.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// dataResponse is the success envelope of every /user route.
type dataResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Validators run as route middleware so invalid input never reaches the service.
func RegisterRoutes(app *fiber.App, pinger Pinger, svc service.StudentService, log hclog.Logger) {
	app.Get("/", Index())
	app.Get("/health", HealthCheck(pinger))
	app.Get("/healthz", LivenessProbe())

	app.Get("/user", validateListQuery(), ListStudents(svc, log))
	app.Post("/user", bindBody[model.CreateStudentRequest](), CreateStudent(svc, log))

	app.Get("/user/:id", validateID(), GetStudent(svc, log))
	app.Patch("/user/:id", validateID(), bindBody[model.UpdateStudentRequest](), UpdateStudent(svc, log))
	app.Delete("/user/:id", validateID(), DeleteStudent(svc, log))
}

// Index godoc
// @Summary Service banner
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func Index() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Student Info"})
	}
}

// HealthCheck godoc
// @Summary Readiness probe, pings MongoDB
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(pinger Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := pinger.Ping(ctx, readpref.Primary()); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe godoc
// @Summary Liveness probe
// @Tags meta
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListStudents godoc
// @Summary List students
// @Description Sorting applies only when both sort_by and order are given.
// @Tags students
// @Produce json
// @Param sort_by query string false "field to sort by"
// @Param order query string false "asc or desc" minlength(3) maxlength(4)
// @Success 200 {object} dataResponse{data=[]model.Student}
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /user [get]
func ListStudents(svc service.StudentService, log hclog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		students, err := svc.List(c.UserContext(), c.Query("sort_by"), c.Query("order"))
		if err != nil {
			return storageFailure(c, log, "list", err)
		}
		return c.JSON(dataResponse{Status: statusOK, Data: students})
	}
}

// GetStudent godoc
// @Summary Get a student by id
// @Tags students
// @Produce json
// @Param id path string true "student id" minlength(10) maxlength(10)
// @Success 200 {object} dataResponse{data=model.Student}
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /user/{id} [get]
func GetStudent(svc service.StudentService, log hclog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		student, err := svc.Get(c.UserContext(), studentID(c))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "Student Id not found !!")
			}
			return storageFailure(c, log, "get", err)
		}
		return c.JSON(dataResponse{Status: statusOK, Data: student})
	}
}

// CreateStudent godoc
// @Summary Create a student
// @Description A duplicate id is reported as a storage failure.
// @Tags students
// @Accept json
// @Produce json
// @Param student body model.CreateStudentRequest true "student"
// @Success 201 {object} dataResponse{data=service.CreateResult}
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /user [post]
func CreateStudent(svc service.StudentService, log hclog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Create(c.UserContext(), bodyFrom[model.CreateStudentRequest](c))
		if err != nil {
			return storageFailure(c, log, "create", err)
		}
		return c.Status(fiber.StatusCreated).JSON(dataResponse{Status: statusWritten, Data: res})
	}
}

// UpdateStudent godoc
// @Summary Partially update a student
// @Description Only the fields present in the body are written.
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "student id" minlength(10) maxlength(10)
// @Param student body model.UpdateStudentRequest true "fields to change"
// @Success 200 {object} dataResponse{data=service.UpdateResult}
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /user/{id} [patch]
func UpdateStudent(svc service.StudentService, log hclog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Update(c.UserContext(), studentID(c), bodyFrom[model.UpdateStudentRequest](c))
		if err != nil {
			return storageFailure(c, log, "update", err)
		}
		if res.ModifiedCount == 0 {
			return writeError(c, fiber.StatusNotFound, fmt.Sprintf("user Id: %s is not update want fields", res.StudentID))
		}
		return c.JSON(dataResponse{Status: statusWritten, Data: res})
	}
}

// DeleteStudent godoc
// @Summary Delete a student
// @Tags students
// @Produce json
// @Param id path string true "student id" minlength(10) maxlength(10)
// @Success 200 {object} dataResponse{data=service.DeleteResult}
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /user/{id} [delete]
func DeleteStudent(svc service.StudentService, log hclog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Delete(c.UserContext(), studentID(c))
		if err != nil {
			return storageFailure(c, log, "delete", err)
		}
		if res.DeletedCount == 0 {
			return writeError(c, fiber.StatusNotFound, fmt.Sprintf("user Id: %s is not Delete", res.StudentID))
		}
		return c.JSON(dataResponse{Status: statusWritten, Data: res})
	}
}

// storageFailure logs err and answers with the generic 500 body.
func storageFailure(c *fiber.Ctx, log hclog.Logger, op string, err error) error {
	args := []any{"op", op, "request_id", middleware.RequestIDFromCtx(c), "error", err}
	if errors.Is(err, service.ErrDuplicateKey) {
		log.Warn("duplicate student id", args...)
	} else {
		log.Error("storage operation failed", args...)
	}
	return writeError(c, fiber.StatusInternalServerError, msgStorageFailure)
}
