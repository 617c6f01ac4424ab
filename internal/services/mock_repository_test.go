package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
)

// waitFor polls an asynchronous condition until it holds or the deadline
// passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// mockRepository is an in-memory Repository used across service tests. It
// enforces the same uniqueness rules the real store gets from its indexes.
type mockRepository struct {
	mu          sync.Mutex
	users       map[string]*models.User
	students    map[string]*models.Student
	lecturers   map[string]*models.Lecturer
	courses     map[string]*models.Course
	enrollments map[string]*models.Enrollment
	results     map[string]*models.Result
	logs        []*models.NotificationLog
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:       make(map[string]*models.User),
		students:    make(map[string]*models.Student),
		lecturers:   make(map[string]*models.Lecturer),
		courses:     make(map[string]*models.Course),
		enrollments: make(map[string]*models.Enrollment),
		results:     make(map[string]*models.Result),
	}
}

func (m *mockRepository) User() repositories.UserRepository             { return &mockUserRepo{m} }
func (m *mockRepository) Student() repositories.StudentRepository       { return &mockStudentRepo{m} }
func (m *mockRepository) Lecturer() repositories.LecturerRepository     { return &mockLecturerRepo{m} }
func (m *mockRepository) Course() repositories.CourseRepository         { return &mockCourseRepo{m} }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository { return &mockEnrollmentRepo{m} }
func (m *mockRepository) Result() repositories.ResultRepository         { return &mockResultRepo{m} }
func (m *mockRepository) NotificationLog() repositories.NotificationLogRepository {
	return &mockNotificationLogRepo{m}
}
func (m *mockRepository) Dashboard() repositories.DashboardRepository { return &mockDashboardRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== test data builders =====

func (m *mockRepository) addStudent(name, email string) *models.Student {
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.SplitN(name, " ", 2)
	last := ""
	if len(parts) > 1 {
		last = parts[1]
	}
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: parts[0],
		LastName:  last,
		Role:      models.RoleStudent,
	}
	student := &models.Student{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		MatricNo: "MAT/" + student8(user.ID),
		Level:    200,
		User:     *user,
	}
	m.users[user.ID] = user
	m.students[student.ID] = student
	return student
}

func (m *mockRepository) addLecturer(name, email string) *models.Lecturer {
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.SplitN(name, " ", 2)
	last := ""
	if len(parts) > 1 {
		last = parts[1]
	}
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: parts[0],
		LastName:  last,
		Role:      models.RoleLecturer,
	}
	lecturer := &models.Lecturer{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		StaffID: "STF/" + student8(user.ID),
		User:    *user,
	}
	m.users[user.ID] = user
	m.lecturers[lecturer.ID] = lecturer
	return lecturer
}

func (m *mockRepository) addCourse(code string, lecturerID *string) *models.Course {
	m.mu.Lock()
	defer m.mu.Unlock()

	course := &models.Course{
		ID:          uuid.NewString(),
		Code:        code,
		Title:       code + " Title",
		CreditUnits: 3,
		Level:       200,
		Semester:    models.SemesterFirst,
		LecturerID:  lecturerID,
	}
	m.courses[course.ID] = course
	return course
}

func (m *mockRepository) addEnrollment(studentID, courseID, session string, semester models.Semester) *models.Enrollment {
	m.mu.Lock()
	defer m.mu.Unlock()

	enrollment := &models.Enrollment{
		ID:        uuid.NewString(),
		StudentID: studentID,
		CourseID:  courseID,
		Session:   session,
		Semester:  semester,
	}
	m.enrollments[enrollment.ID] = enrollment
	return enrollment
}

func student8(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ===== user repo =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, existing := range r.m.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Student != nil {
		if user.Student.ID == "" {
			user.Student.ID = uuid.NewString()
		}
		user.Student.UserID = user.ID
		r.m.students[user.Student.ID] = user.Student
	}
	if user.Lecturer != nil {
		if user.Lecturer.ID == "" {
			user.Lecturer.ID = uuid.NewString()
		}
		user.Lecturer.UserID = user.ID
		r.m.lecturers[user.Lecturer.ID] = user.Lecturer
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var users []*models.User
	for _, user := range r.m.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, int64(len(users)), nil
}

func (r *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.users, id)
	return nil
}

// ===== student repo =====

type mockStudentRepo struct{ m *mockRepository }

func (r *mockStudentRepo) GetByID(ctx context.Context, id string) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	student, ok := r.m.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return student, nil
}

func (r *mockStudentRepo) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, student := range r.m.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockStudentRepo) GetByMatricNo(ctx context.Context, matricNo string) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, student := range r.m.students {
		if student.MatricNo == matricNo {
			return student, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockStudentRepo) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var students []*models.Student
	for _, student := range r.m.students {
		students = append(students, student)
	}
	return students, int64(len(students)), nil
}

func (r *mockStudentRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.students[id]
	return ok, nil
}

// ===== lecturer repo =====

type mockLecturerRepo struct{ m *mockRepository }

func (r *mockLecturerRepo) GetByID(ctx context.Context, id string) (*models.Lecturer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	lecturer, ok := r.m.lecturers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return lecturer, nil
}

func (r *mockLecturerRepo) GetByUserID(ctx context.Context, userID string) (*models.Lecturer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, lecturer := range r.m.lecturers {
		if lecturer.UserID == userID {
			return lecturer, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockLecturerRepo) GetByStaffID(ctx context.Context, staffID string) (*models.Lecturer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, lecturer := range r.m.lecturers {
		if lecturer.StaffID == staffID {
			return lecturer, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockLecturerRepo) List(ctx context.Context, filters repositories.LecturerFilters) ([]*models.Lecturer, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var lecturers []*models.Lecturer
	for _, lecturer := range r.m.lecturers {
		lecturers = append(lecturers, lecturer)
	}
	return lecturers, int64(len(lecturers)), nil
}

func (r *mockLecturerRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.lecturers[id]
	return ok, nil
}

// ===== course repo =====

type mockCourseRepo struct{ m *mockRepository }

func (r *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.courses {
		if existing.Code == course.Code {
			return repositories.ErrDuplicateKey
		}
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	r.m.courses[course.ID] = course
	return nil
}

func (r *mockCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	course, ok := r.m.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return course, nil
}

func (r *mockCourseRepo) GetByIDWithLecturer(ctx context.Context, id string) (*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	course, ok := r.m.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if course.LecturerID != nil {
		if lecturer, ok := r.m.lecturers[*course.LecturerID]; ok {
			course.Lecturer = lecturer
		}
	}
	return course, nil
}

func (r *mockCourseRepo) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, course := range r.m.courses {
		if course.Code == code {
			return course, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var courses []*models.Course
	for _, course := range r.m.courses {
		if filters.LecturerID != nil && (course.LecturerID == nil || *course.LecturerID != *filters.LecturerID) {
			continue
		}
		if filters.Unassigned && course.LecturerID != nil {
			continue
		}
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, int64(len(courses)), nil
}

func (r *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.courses[course.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.courses[course.ID] = course
	return nil
}

func (r *mockCourseRepo) SetLecturer(ctx context.Context, courseID string, lecturerID *string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	course, ok := r.m.courses[courseID]
	if !ok {
		return repositories.ErrNotFound
	}
	course.LecturerID = lecturerID
	return nil
}

// ===== enrollment repo =====

type mockEnrollmentRepo struct{ m *mockRepository }

func (r *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.enrollments {
		if existing.StudentID == enrollment.StudentID &&
			existing.CourseID == enrollment.CourseID &&
			existing.Session == enrollment.Session &&
			existing.Semester == enrollment.Semester {
			return repositories.ErrDuplicateKey
		}
	}
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	r.m.enrollments[enrollment.ID] = enrollment
	return nil
}

func (r *mockEnrollmentRepo) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	enrollment, ok := r.m.enrollments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return enrollment, nil
}

func (r *mockEnrollmentRepo) GetByIDWithRelations(ctx context.Context, id string) (*models.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	enrollment, ok := r.m.enrollments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *enrollment
	if course, ok := r.m.courses[enrollment.CourseID]; ok {
		copied.Course = *course
	}
	if student, ok := r.m.students[enrollment.StudentID]; ok {
		copied.Student = *student
	}
	return &copied, nil
}

func (r *mockEnrollmentRepo) GetByOffering(ctx context.Context, studentID, courseID, session string, semester models.Semester) (*models.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, enrollment := range r.m.enrollments {
		if enrollment.StudentID == studentID && enrollment.CourseID == courseID &&
			enrollment.Session == session && enrollment.Semester == semester {
			return enrollment, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockEnrollmentRepo) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var enrollments []*models.Enrollment
	for _, enrollment := range r.m.enrollments {
		if filters.StudentID != nil && enrollment.StudentID != *filters.StudentID {
			continue
		}
		if filters.CourseID != nil && enrollment.CourseID != *filters.CourseID {
			continue
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, int64(len(enrollments)), nil
}

func (r *mockEnrollmentRepo) IDsByStudentCourse(ctx context.Context, studentID, courseID string) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var ids []string
	for _, enrollment := range r.m.enrollments {
		if enrollment.StudentID == studentID && enrollment.CourseID == courseID {
			ids = append(ids, enrollment.ID)
		}
	}
	return ids, nil
}

func (r *mockEnrollmentRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := r.m.enrollments[id]; ok {
			delete(r.m.enrollments, id)
			deleted++
		}
	}
	return deleted, nil
}

// ===== result repo =====

type mockResultRepo struct{ m *mockRepository }

func (r *mockResultRepo) Upsert(ctx context.Context, result *models.Result) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.results {
		if existing.EnrollmentID == result.EnrollmentID {
			existing.Score = result.Score
			existing.Grade = result.Grade
			*result = *existing
			return nil
		}
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	stored := *result
	r.m.results[result.ID] = &stored
	return nil
}

func (r *mockResultRepo) GetByID(ctx context.Context, id string) (*models.Result, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	result, ok := r.m.results[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return result, nil
}

func (r *mockResultRepo) GetByEnrollment(ctx context.Context, enrollmentID string) (*models.Result, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, result := range r.m.results {
		if result.EnrollmentID == enrollmentID {
			return result, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockResultRepo) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Result, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var results []*models.Result
	for _, result := range r.m.results {
		if filters.CourseID != nil && result.CourseID != *filters.CourseID {
			continue
		}
		if filters.StudentID != nil && result.StudentID != *filters.StudentID {
			continue
		}
		if filters.LecturerID != nil && result.LecturerID != *filters.LecturerID {
			continue
		}
		if filters.Published != nil && result.Published != *filters.Published {
			continue
		}
		results = append(results, result)
	}
	return results, int64(len(results)), nil
}

func (r *mockResultRepo) ExistsForEnrollments(ctx context.Context, enrollmentIDs []string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, result := range r.m.results {
		for _, id := range enrollmentIDs {
			if result.EnrollmentID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *mockResultRepo) SetPublished(ctx context.Context, id string, published bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	result, ok := r.m.results[id]
	if !ok {
		return repositories.ErrNotFound
	}
	result.Published = published
	return nil
}

func (r *mockResultRepo) PendingByLecturer(ctx context.Context) ([]*repositories.LecturerPendingSummary, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	byLecturer := make(map[string]*repositories.LecturerPendingSummary)
	summaryFor := func(lecturerID string) *repositories.LecturerPendingSummary {
		if summary, ok := byLecturer[lecturerID]; ok {
			return summary
		}
		summary := &repositories.LecturerPendingSummary{LecturerID: lecturerID}
		if lecturer, ok := r.m.lecturers[lecturerID]; ok {
			summary.LecturerEmail = lecturer.User.Email
			summary.LecturerName = lecturer.User.FullName()
		}
		byLecturer[lecturerID] = summary
		return summary
	}

	for _, enrollment := range r.m.enrollments {
		course, ok := r.m.courses[enrollment.CourseID]
		if !ok || course.LecturerID == nil {
			continue
		}
		hasResult := false
		for _, result := range r.m.results {
			if result.EnrollmentID == enrollment.ID {
				hasResult = true
				if !result.Published {
					summaryFor(*course.LecturerID).UnpublishedCount++
				}
				break
			}
		}
		if !hasResult {
			summaryFor(*course.LecturerID).MissingResults++
		}
	}

	var summaries []*repositories.LecturerPendingSummary
	for _, summary := range byLecturer {
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].LecturerID < summaries[j].LecturerID })
	return summaries, nil
}

// ===== notification log repo =====

type mockNotificationLogRepo struct{ m *mockRepository }

func (r *mockNotificationLogRepo) Create(ctx context.Context, log *models.NotificationLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	r.m.logs = append(r.m.logs, log)
	return nil
}

func (r *mockNotificationLogRepo) ListRecent(ctx context.Context, limit int) ([]*models.NotificationLog, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	logs := make([]*models.NotificationLog, len(r.m.logs))
	copy(logs, r.m.logs)
	if limit > 0 && len(logs) > limit {
		logs = logs[len(logs)-limit:]
	}
	return logs, nil
}

// ===== dashboard repo =====

type mockDashboardRepo struct{ m *mockRepository }

func (r *mockDashboardRepo) GetStats(ctx context.Context) (*repositories.DashboardStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	stats := &repositories.DashboardStats{
		StudentCount:    int64(len(r.m.students)),
		LecturerCount:   int64(len(r.m.lecturers)),
		CourseCount:     int64(len(r.m.courses)),
		EnrollmentCount: int64(len(r.m.enrollments)),
		ResultCount:     int64(len(r.m.results)),
	}
	for _, enrollment := range r.m.enrollments {
		found := false
		for _, result := range r.m.results {
			if result.EnrollmentID == enrollment.ID {
				found = true
				break
			}
		}
		if !found {
			stats.PendingResults++
		}
	}
	return stats, nil
}
