package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type fakeClubRepo struct {
	clubs  map[uint]models.TennisClub
	nextID uint
	users  *fakeUserRepo
	groups *fakeGroupRepo
	// periods receives the onboarding seed period when set.
	periods *fakePeriodRepo
}

func newFakeClubRepo(users *fakeUserRepo, groups *fakeGroupRepo, periods *fakePeriodRepo) *fakeClubRepo {
	return &fakeClubRepo{clubs: map[uint]models.TennisClub{}, users: users, groups: groups, periods: periods}
}

func (f *fakeClubRepo) GetByID(ctx context.Context, id uint) (models.TennisClub, error) {
	club, ok := f.clubs[id]
	if !ok {
		return models.TennisClub{}, gorm.ErrRecordNotFound
	}
	return club, nil
}

func (f *fakeClubRepo) GetBySubdomain(ctx context.Context, subdomain string) (models.TennisClub, error) {
	for _, club := range f.clubs {
		if club.Subdomain == subdomain {
			return club, nil
		}
	}
	return models.TennisClub{}, gorm.ErrRecordNotFound
}

func (f *fakeClubRepo) Onboard(ctx context.Context, club *models.TennisClub, admin *models.User, groups []models.TennisGroup, period *models.TeachingPeriod) error {
	for _, existing := range f.clubs {
		if existing.Subdomain == club.Subdomain {
			return gorm.ErrDuplicatedKey
		}
	}

	f.nextID++
	club.ID = f.nextID
	f.clubs[club.ID] = *club

	admin.TennisClubID = club.ID
	if err := f.users.Create(ctx, admin); err != nil {
		delete(f.clubs, club.ID)
		return err
	}
	for i := range groups {
		groups[i].TennisClubID = club.ID
		if err := f.groups.Create(ctx, &groups[i]); err != nil {
			return err
		}
	}
	period.TennisClubID = club.ID
	if f.periods != nil {
		return f.periods.Create(ctx, period)
	}
	return nil
}

type fakeUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, user := range f.users {
		if user.Email == normalized {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) ListCoaches(ctx context.Context, clubID uint) ([]models.User, error) {
	var coaches []models.User
	for _, user := range f.users {
		if user.TennisClubID == clubID && (user.Role == models.RoleCoach || user.Role == models.RoleAdmin) {
			coaches = append(coaches, user)
		}
	}
	return coaches, nil
}

func (f *fakeUserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeDetailsRepo struct {
	details map[uint]models.CoachDetails
	nextID  uint
	users   *fakeUserRepo
}

func newFakeDetailsRepo(users *fakeUserRepo) *fakeDetailsRepo {
	return &fakeDetailsRepo{details: map[uint]models.CoachDetails{}, users: users}
}

func (f *fakeDetailsRepo) GetByUserID(ctx context.Context, userID uint) (models.CoachDetails, error) {
	for _, record := range f.details {
		if record.UserID == userID {
			return record, nil
		}
	}
	return models.CoachDetails{}, gorm.ErrRecordNotFound
}

func (f *fakeDetailsRepo) Save(ctx context.Context, details *models.CoachDetails) error {
	if details.ID == 0 {
		f.nextID++
		details.ID = f.nextID
	}
	f.details[details.ID] = *details
	return nil
}

func (f *fakeDetailsRepo) ListByClub(ctx context.Context, clubID uint) ([]models.CoachDetails, error) {
	var records []models.CoachDetails
	for _, record := range f.details {
		if record.TennisClubID != clubID {
			continue
		}
		if user, err := f.users.GetByID(ctx, record.UserID); err == nil {
			record.User = user
		}
		records = append(records, record)
	}
	return records, nil
}

type fakeInvitationRepo struct {
	invitations map[uint]models.CoachInvitation
	nextID      uint
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: map[uint]models.CoachInvitation{}}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, invitation *models.CoachInvitation) error {
	f.nextID++
	invitation.ID = f.nextID
	f.invitations[invitation.ID] = *invitation
	return nil
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (models.CoachInvitation, error) {
	for _, invitation := range f.invitations {
		if invitation.Token == token {
			return invitation, nil
		}
	}
	return models.CoachInvitation{}, gorm.ErrRecordNotFound
}

func (f *fakeInvitationRepo) MarkUsed(ctx context.Context, id uint) error {
	invitation, ok := f.invitations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	invitation.Used = true
	f.invitations[id] = invitation
	return nil
}

type fakeStudentRepo struct {
	students map[uint]models.Student
	nextID   uint
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[uint]models.Student{}}
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id uint) (models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) FindByName(ctx context.Context, clubID uint, name string) (models.Student, error) {
	trimmed := strings.TrimSpace(name)
	for _, student := range f.students {
		if student.TennisClubID == clubID && student.Name == trimmed {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	f.nextID++
	student.ID = f.nextID
	student.Name = strings.TrimSpace(student.Name)
	f.students[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := f.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.students[student.ID] = *student
	return nil
}

type fakeGroupRepo struct {
	groups map[uint]models.TennisGroup
	nextID uint
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[uint]models.TennisGroup{}}
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, id uint) (models.TennisGroup, error) {
	group, ok := f.groups[id]
	if !ok {
		return models.TennisGroup{}, gorm.ErrRecordNotFound
	}
	return group, nil
}

func (f *fakeGroupRepo) FindByName(ctx context.Context, clubID uint, name string) (models.TennisGroup, error) {
	trimmed := strings.TrimSpace(name)
	for _, group := range f.groups {
		if group.TennisClubID == clubID && group.Name == trimmed {
			return group, nil
		}
	}
	return models.TennisGroup{}, gorm.ErrRecordNotFound
}

func (f *fakeGroupRepo) List(ctx context.Context, clubID uint) ([]models.TennisGroup, error) {
	var groups []models.TennisGroup
	for _, group := range f.groups {
		if group.TennisClubID == clubID {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

func (f *fakeGroupRepo) Create(ctx context.Context, group *models.TennisGroup) error {
	group.Name = strings.TrimSpace(group.Name)
	for _, existing := range f.groups {
		if existing.TennisClubID == group.TennisClubID && existing.Name == group.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	group.ID = f.nextID
	f.groups[group.ID] = *group
	return nil
}

func (f *fakeGroupRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.groups, id)
	return nil
}

type fakePeriodRepo struct {
	periods map[uint]models.TeachingPeriod
	nextID  uint
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: map[uint]models.TeachingPeriod{}}
}

func (f *fakePeriodRepo) GetByID(ctx context.Context, id uint) (models.TeachingPeriod, error) {
	period, ok := f.periods[id]
	if !ok {
		return models.TeachingPeriod{}, gorm.ErrRecordNotFound
	}
	return period, nil
}

func (f *fakePeriodRepo) List(ctx context.Context, clubID uint) ([]models.TeachingPeriod, error) {
	var periods []models.TeachingPeriod
	for _, period := range f.periods {
		if period.TennisClubID == clubID {
			periods = append(periods, period)
		}
	}
	return periods, nil
}

func (f *fakePeriodRepo) Create(ctx context.Context, period *models.TeachingPeriod) error {
	f.nextID++
	period.ID = f.nextID
	f.periods[period.ID] = *period
	return nil
}

func (f *fakePeriodRepo) Update(ctx context.Context, period *models.TeachingPeriod) error {
	if _, ok := f.periods[period.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.periods[period.ID] = *period
	return nil
}

func (f *fakePeriodRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.periods[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.periods, id)
	return nil
}

type fakePlayerRepo struct {
	players  map[uint]models.ProgrammePlayer
	nextID   uint
	students *fakeStudentRepo
	groups   *fakeGroupRepo
	users    *fakeUserRepo
	periods  *fakePeriodRepo
}

func newFakePlayerRepo(students *fakeStudentRepo, groups *fakeGroupRepo, users *fakeUserRepo, periods *fakePeriodRepo) *fakePlayerRepo {
	return &fakePlayerRepo{
		players:  map[uint]models.ProgrammePlayer{},
		students: students,
		groups:   groups,
		users:    users,
		periods:  periods,
	}
}

func (f *fakePlayerRepo) join(player models.ProgrammePlayer) models.ProgrammePlayer {
	if student, err := f.students.GetByID(context.Background(), player.StudentID); err == nil {
		player.Student = student
	}
	if group, err := f.groups.GetByID(context.Background(), player.GroupID); err == nil {
		player.Group = group
	}
	if coach, err := f.users.GetByID(context.Background(), player.CoachID); err == nil {
		player.Coach = coach
	}
	if period, err := f.periods.GetByID(context.Background(), player.TeachingPeriodID); err == nil {
		player.TeachingPeriod = period
	}
	return player
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id uint) (models.ProgrammePlayer, error) {
	player, ok := f.players[id]
	if !ok {
		return models.ProgrammePlayer{}, gorm.ErrRecordNotFound
	}
	return f.join(player), nil
}

func (f *fakePlayerRepo) ExistsForStudentPeriod(ctx context.Context, studentID, periodID uint) (bool, error) {
	for _, player := range f.players {
		if player.StudentID == studentID && player.TeachingPeriodID == periodID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePlayerRepo) Create(ctx context.Context, player *models.ProgrammePlayer) error {
	if exists, _ := f.ExistsForStudentPeriod(ctx, player.StudentID, player.TeachingPeriodID); exists {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	player.ID = f.nextID
	f.players[player.ID] = *player
	return nil
}

func (f *fakePlayerRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.players[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.players, id)
	return nil
}

func (f *fakePlayerRepo) List(ctx context.Context, filter repository.PlayerFilter) ([]models.ProgrammePlayer, error) {
	var players []models.ProgrammePlayer
	for _, player := range f.players {
		if player.TennisClubID != filter.ClubID || player.TeachingPeriodID != filter.PeriodID {
			continue
		}
		if filter.CoachID != nil && player.CoachID != *filter.CoachID {
			continue
		}
		if filter.GroupID != nil && player.GroupID != *filter.GroupID {
			continue
		}
		players = append(players, f.join(player))
	}
	return players, nil
}

func (f *fakePlayerRepo) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	for _, player := range f.players {
		if player.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (f *fakePlayerRepo) CountByPeriod(ctx context.Context, periodID uint) (int64, error) {
	var count int64
	for _, player := range f.players {
		if player.TeachingPeriodID == periodID {
			count++
		}
	}
	return count, nil
}

func (f *fakePlayerRepo) BulkCreate(ctx context.Context, entries []repository.BulkEntry) error {
	// All-or-nothing, mirroring the transactional implementation.
	created := make([]uint, 0, len(entries))
	createdStudents := make([]uint, 0, len(entries))
	rollback := func() {
		for _, id := range created {
			delete(f.players, id)
		}
		for _, id := range createdStudents {
			delete(f.students.students, id)
		}
	}

	for _, entry := range entries {
		if entry.Student.ID == 0 {
			if err := f.students.Create(ctx, entry.Student); err != nil {
				rollback()
				return err
			}
			createdStudents = append(createdStudents, entry.Student.ID)
		}
		entry.Player.StudentID = entry.Student.ID
		if err := f.Create(ctx, entry.Player); err != nil {
			rollback()
			return err
		}
		created = append(created, entry.Player.ID)
	}
	return nil
}

// setSubmitted flips the denormalized flag, standing in for the report
// repository transaction.
func (f *fakePlayerRepo) setSubmitted(id uint, submitted bool) {
	if player, ok := f.players[id]; ok {
		player.ReportSubmitted = submitted
		f.players[id] = player
	}
}

func playerFilterForClub(clubID, periodID uint) repository.PlayerFilter {
	return repository.PlayerFilter{ClubID: clubID, PeriodID: periodID}
}

type fakeTemplateRepo struct {
	templates map[uint]models.ReportTemplate
	links     map[uint]models.GroupTemplate
	nextID    uint
	nextLink  uint
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{
		templates: map[uint]models.ReportTemplate{},
		links:     map[uint]models.GroupTemplate{},
	}
}

func (f *fakeTemplateRepo) Create(ctx context.Context, template *models.ReportTemplate) error {
	f.nextID++
	template.ID = f.nextID
	f.templates[template.ID] = *template
	return nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id uint) (models.ReportTemplate, error) {
	template, ok := f.templates[id]
	if !ok {
		return models.ReportTemplate{}, gorm.ErrRecordNotFound
	}
	template.GroupLinks = nil
	for _, link := range f.links {
		if link.ReportTemplateID == id {
			template.GroupLinks = append(template.GroupLinks, link)
		}
	}
	return template, nil
}

func (f *fakeTemplateRepo) List(ctx context.Context, clubID uint, activeOnly bool) ([]models.ReportTemplate, error) {
	var templates []models.ReportTemplate
	for id, template := range f.templates {
		if template.TennisClubID != clubID {
			continue
		}
		if activeOnly && !template.IsActive {
			continue
		}
		loaded, _ := f.GetByID(ctx, id)
		templates = append(templates, loaded)
	}
	return templates, nil
}

func (f *fakeTemplateRepo) ReplaceSections(ctx context.Context, template *models.ReportTemplate, sections []models.TemplateSection) error {
	stored, ok := f.templates[template.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name = template.Name
	stored.Description = template.Description
	stored.Sections = sections
	f.templates[template.ID] = stored
	return nil
}

func (f *fakeTemplateRepo) Deactivate(ctx context.Context, id uint) error {
	template, ok := f.templates[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	template.IsActive = false
	f.templates[id] = template
	return nil
}

func (f *fakeTemplateRepo) AssignGroup(ctx context.Context, templateID, groupID uint) error {
	for id, link := range f.links {
		if link.GroupID == groupID && link.IsActive {
			link.IsActive = false
			f.links[id] = link
		}
	}
	for id, link := range f.links {
		if link.ReportTemplateID == templateID && link.GroupID == groupID {
			link.IsActive = true
			f.links[id] = link
			return nil
		}
	}
	f.nextLink++
	f.links[f.nextLink] = models.GroupTemplate{
		ID:               f.nextLink,
		ReportTemplateID: templateID,
		GroupID:          groupID,
		IsActive:         true,
	}
	return nil
}

func (f *fakeTemplateRepo) UnassignGroup(ctx context.Context, templateID, groupID uint) error {
	for id, link := range f.links {
		if link.ReportTemplateID == templateID && link.GroupID == groupID {
			link.IsActive = false
			f.links[id] = link
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeTemplateRepo) ActiveForGroup(ctx context.Context, groupID uint) (models.ReportTemplate, error) {
	for _, link := range f.links {
		if link.GroupID != groupID || !link.IsActive {
			continue
		}
		template, err := f.GetByID(ctx, link.ReportTemplateID)
		if err == nil && template.IsActive {
			return template, nil
		}
	}
	return models.ReportTemplate{}, gorm.ErrRecordNotFound
}

type fakeReportRepo struct {
	reports   map[uint]models.Report
	nextID    uint
	players   *fakePlayerRepo
	templates *fakeTemplateRepo
	groups    *fakeGroupRepo
}

func newFakeReportRepo(players *fakePlayerRepo, templates *fakeTemplateRepo, groups *fakeGroupRepo) *fakeReportRepo {
	return &fakeReportRepo{
		reports:   map[uint]models.Report{},
		players:   players,
		templates: templates,
		groups:    groups,
	}
}

func (f *fakeReportRepo) join(report models.Report) models.Report {
	if student, err := f.players.students.GetByID(context.Background(), report.StudentID); err == nil {
		report.Student = student
	}
	if group, err := f.groups.GetByID(context.Background(), report.GroupID); err == nil {
		report.Group = group
	}
	if report.RecommendedGroupID != nil {
		if group, err := f.groups.GetByID(context.Background(), *report.RecommendedGroupID); err == nil {
			report.RecommendedGroup = &group
		}
	}
	if period, err := f.players.periods.GetByID(context.Background(), report.TeachingPeriodID); err == nil {
		report.TeachingPeriod = period
	}
	if template, err := f.templates.GetByID(context.Background(), report.ReportTemplateID); err == nil {
		report.Template = template
	}
	return report
}

func (f *fakeReportRepo) Create(ctx context.Context, report *models.Report) error {
	if exists, _ := f.ExistsForStudentPeriod(ctx, report.StudentID, report.TeachingPeriodID); exists {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	report.ID = f.nextID
	f.reports[report.ID] = *report
	f.players.setSubmitted(report.ProgrammePlayerID, true)
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id uint) (models.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return models.Report{}, gorm.ErrRecordNotFound
	}
	return f.join(report), nil
}

func (f *fakeReportRepo) ExistsForStudentPeriod(ctx context.Context, studentID, periodID uint) (bool, error) {
	for _, report := range f.reports {
		if report.StudentID == studentID && report.TeachingPeriodID == periodID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReportRepo) Update(ctx context.Context, report *models.Report) error {
	stored, ok := f.reports[report.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Content = report.Content
	stored.RecommendedGroupID = report.RecommendedGroupID
	f.reports[report.ID] = stored
	return nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, id uint) error {
	report, ok := f.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.reports, id)
	f.players.setSubmitted(report.ProgrammePlayerID, false)
	return nil
}

func (f *fakeReportRepo) ListByPeriod(ctx context.Context, clubID, periodID uint) ([]models.Report, error) {
	var reports []models.Report
	for _, report := range f.reports {
		if report.TennisClubID == clubID && report.TeachingPeriodID == periodID {
			reports = append(reports, f.join(report))
		}
	}
	return reports, nil
}

func (f *fakeReportRepo) CountByPeriod(ctx context.Context, periodID uint) (int64, error) {
	var count int64
	for _, report := range f.reports {
		if report.TeachingPeriodID == periodID {
			count++
		}
	}
	return count, nil
}

func (f *fakeReportRepo) MarkSent(ctx context.Context, id uint, status string, sentAt time.Time) error {
	report, ok := f.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	report.EmailSent = true
	report.EmailSentAt = &sentAt
	report.LastEmailStatus = status
	report.EmailAttempts++
	f.reports[id] = report
	return nil
}
