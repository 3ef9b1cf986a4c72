package handler_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/centralms/lms-api/internal/dto"
)

func createCourse(t *testing.T, app *fiber.App, token, name string) dto.CourseResponse {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/v1/courses", token, dto.CourseCreateRequest{Name: name})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Data dto.CourseResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	return body.Data
}

func postMaterial(t *testing.T, app *fiber.App, token, path, title, textBody string, pdf []byte) *http.Response {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	require.NoError(t, writer.WriteField("title", title))
	if textBody != "" {
		require.NoError(t, writer.WriteField("body", textBody))
	}
	if pdf != nil {
		part, err := writer.CreateFormFile("file", "doc.pdf")
		require.NoError(t, err)
		_, err = part.Write(pdf)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestClassroomFlowSubmitAndGrade(t *testing.T) {
	app, _ := setupApp(t)

	_, teacherToken := registerAndLogin(t, app, "teacher", "Teacher")
	_, studentToken := registerAndLogin(t, app, "student", "Student")

	course := createCourse(t, app, teacherToken, "Algebra")

	resp := postMaterial(t, app, teacherToken, fmt.Sprintf("/api/v1/courses/%d/assignments", course.ID), "Worksheet 1", "Solve x+1=2", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var assignmentBody struct {
		Data dto.AssignmentResponse `json:"data"`
	}
	decodeResponse(t, resp, &assignmentBody)
	assignment := assignmentBody.Data
	require.Equal(t, "text", assignment.Material.Kind)

	// Students cannot submit before enrolling.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/assignments/%d/submissions", assignment.ID), studentToken, dto.SubmitRequest{Answer: "42"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), studentToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/assignments/%d/submissions", assignment.ID), studentToken, dto.SubmitRequest{Answer: "42"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var submitBody struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &submitBody)
	require.Equal(t, "42", submitBody.Data.Answer)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/assignments/%d/submissions", assignment.ID), teacherToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var listBody struct {
		Data []dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &listBody)
	require.Len(t, listBody.Data, 1)
	require.Equal(t, "student", listBody.Data[0].Username)
	require.Equal(t, "42", listBody.Data[0].Answer)
	require.False(t, listBody.Data[0].Graded)

	grade := 90
	resp = doJSON(t, app, "PATCH", fmt.Sprintf("/api/v1/submissions/%d/grade", submitBody.Data.ID), teacherToken, dto.GradeRequest{Grade: &grade, Feedback: "well done"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/assignments/%d/submissions", assignment.ID), teacherToken, nil)
	decodeResponse(t, resp, &listBody)
	require.Len(t, listBody.Data, 1)
	require.True(t, listBody.Data[0].Graded)
	require.NotNil(t, listBody.Data[0].Grade)
	require.Equal(t, 90, *listBody.Data[0].Grade)
	require.Equal(t, "well done", listBody.Data[0].Feedback)
}

func TestClassroomFlowRoleGuards(t *testing.T) {
	app, _ := setupApp(t)

	_, teacherToken := registerAndLogin(t, app, "teacher", "Teacher")
	_, studentToken := registerAndLogin(t, app, "student", "Student")

	// Students cannot create courses.
	resp := doJSON(t, app, "POST", "/api/v1/courses", studentToken, dto.CourseCreateRequest{Name: "Nope"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	course := createCourse(t, app, teacherToken, "Algebra")

	// Teachers cannot enroll.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), teacherToken, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Double enrollment is a conflict.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), studentToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), studentToken, nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestClassroomFlowLeaderboardAndDashboard(t *testing.T) {
	app, _ := setupApp(t)

	_, teacherToken := registerAndLogin(t, app, "teacher", "Teacher")
	_, studentToken := registerAndLogin(t, app, "student", "Student")

	course := createCourse(t, app, teacherToken, "Algebra")

	resp := postMaterial(t, app, teacherToken, fmt.Sprintf("/api/v1/courses/%d/assignments", course.ID), "Worksheet 1", "solve", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var assignmentBody struct {
		Data dto.AssignmentResponse `json:"data"`
	}
	decodeResponse(t, resp, &assignmentBody)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), studentToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/assignments/%d/submissions", assignmentBody.Data.ID), studentToken, dto.SubmitRequest{Answer: "42"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/leaderboard", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var leaderboardBody struct {
		Data []dto.LeaderboardEntryResponse `json:"data"`
	}
	decodeResponse(t, resp, &leaderboardBody)
	require.Len(t, leaderboardBody.Data, 1)
	require.Equal(t, "student", leaderboardBody.Data[0].Username)
	require.Equal(t, 10, leaderboardBody.Data[0].Points)

	resp = doJSON(t, app, "GET", "/api/v1/students/me/dashboard", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var dashboardBody struct {
		Data dto.StudentDashboardResponse `json:"data"`
	}
	decodeResponse(t, resp, &dashboardBody)
	require.Equal(t, int64(1), dashboardBody.Data.CoursesEnrolled)
	require.Equal(t, 10, dashboardBody.Data.Points)
	require.Len(t, dashboardBody.Data.Progress, 1)
	require.InDelta(t, 100.0, dashboardBody.Data.Progress[0].Percent, 0.001)
}

func TestClassroomFlowNoteUploadAndDownload(t *testing.T) {
	app, _ := setupApp(t)

	_, teacherToken := registerAndLogin(t, app, "teacher", "Teacher")
	_, studentToken := registerAndLogin(t, app, "student", "Student")

	course := createCourse(t, app, teacherToken, "Algebra")

	pdf := []byte("%PDF-1.4\nnote content")
	resp := postMaterial(t, app, teacherToken, fmt.Sprintf("/api/v1/courses/%d/notes", course.ID), "Chapter 1", "", pdf)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var noteBody struct {
		Data dto.NoteResponse `json:"data"`
	}
	decodeResponse(t, resp, &noteBody)
	require.Equal(t, "document", noteBody.Data.Material.Kind)
	require.NotEmpty(t, noteBody.Data.Material.StorageKey)

	resp = doJSON(t, app, "GET", "/api/v1/materials/"+noteBody.Data.Material.StorageKey, studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	downloaded, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, pdf, downloaded)

	// Non-PDF uploads are rejected.
	badResp := postMaterial(t, app, teacherToken, fmt.Sprintf("/api/v1/courses/%d/notes", course.ID), "Bad", "", []byte("not a pdf"))
	require.Equal(t, fiber.StatusBadRequest, badResp.StatusCode)
}
