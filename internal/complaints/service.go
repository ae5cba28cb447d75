package complaints

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/internal/jobs"
	"github.com/taskercompanyofficial/taskercompany-api/internal/notifications"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/whatsapp"
)

// feedbackPendingCap limits how many complaints may sit in feedback-pending at once.
const feedbackPendingCap = 50

const (
	crmComplaintLinkFormat  = "https://crm.taskercompany.com/crm/complaints/%d"
	createTemplateName      = "complaint_create_template"
	helplineNumber          = "03025117000"
	companyWebsite          = "www.taskercompany.com"
	directContactDisclaimer = "*Important Note:* Tasker Company ke Technician ya kisi bhi doosre worker se direct rabta na karein. Agar aap aisa karte hain to kisi bhi nuqsan ya maslay ki zimmedari Tasker Company par nahi hogi."
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Notifier is the fan-out surface complaints depends on.
type Notifier interface {
	Publish(ctx context.Context, input notifications.PublishInput)
}

// Assigner binds technicians to complaints, optionally inside our transaction.
type Assigner interface {
	Assign(ctx context.Context, input jobs.AssignInput) (*jobs.AssignResult, error)
	NotifyAssigned(ctx context.Context, input jobs.AssignInput, result *jobs.AssignResult)
	DeleteForComplaint(ctx context.Context, tx *gorm.DB, complaintID uint) error
}

// Service defines the complaint lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput, actingStaffID uint) (*models.Complaint, error)
	Get(ctx context.Context, id uint) (*models.Complaint, error)
	GetByNumber(ctx context.Context, number string) (*models.Complaint, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, id uint, input UpdateInput, actingStaffID uint) (*models.Complaint, error)
	MarkTechnicianReached(ctx context.Context, id, actingStaffID uint) (*models.Complaint, error)
	Cancel(ctx context.Context, id uint, input CancelInput) error
	Schedule(ctx context.Context, id uint, input ScheduleInput) error
	Delete(ctx context.Context, id uint) error
	Histories(ctx context.Context, id uint) ([]models.ComplaintHistory, error)
	StatusCounts(ctx context.Context, branchID uint) (map[enums.ComplaintStatus]int64, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier Notifier
	assigner Assigner
	wa       whatsapp.Sender
	logg     *logger.Logger
}

// NewService wires the complaint lifecycle dependencies.
func NewService(repo Repository, tx txRunner, notifier Notifier, assigner Assigner, wa whatsapp.Sender, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "complaints repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		assigner: assigner,
		wa:       wa,
		logg:     logg,
	}, nil
}

// nextComplaintNumber derives the sequential complaint number. The max-id read
// and the insert are not serialized, so concurrent creations can in principle
// collide; the unique index on complain_num surfaces that as a conflict.
func nextComplaintNumber(now time.Time, maxID uint) string {
	return fmt.Sprintf("TC%s%d", now.Format("02012006"), maxID+1)
}

func (s *service) Create(ctx context.Context, input CreateInput, actingStaffID uint) (*models.Complaint, error) {
	maxID, err := s.repo.MaxID(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read max complaint id")
	}

	complaint := &models.Complaint{
		ComplainNum: nextComplaintNumber(time.Now(), maxID),
		Status:      enums.ComplaintStatusOpen,
	}
	if actingStaffID != 0 {
		complaint.UserID = &actingStaffID
	}
	input.apply(complaint)

	if err := s.repo.Create(ctx, complaint); err != nil {
		if db.IsUniqueViolation(err, "idx_complaints_complain_num") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "complaint number already taken, retry the creation")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create complaint")
	}

	if s.notifier != nil {
		s.notifier.Publish(ctx, notifications.PublishInput{
			Title:    "New Complaint",
			Message:  "A New Complaint has been received!",
			Severity: enums.SeverityInfo,
			Link:     fmt.Sprintf(crmComplaintLinkFormat, complaint.ID),
		})
	}

	s.sendCreateMessage(ctx, complaint)

	return complaint, nil
}

func (s *service) sendCreateMessage(ctx context.Context, complaint *models.Complaint) {
	if s.wa == nil || complaint.ApplicantWhatsapp == "" {
		return
	}
	err := s.wa.SendTemplate(ctx, complaint.ApplicantWhatsapp, createTemplateName, "en", []string{
		complaint.ApplicantName,
		complaint.ComplainNum,
	})
	if err != nil {
		fields := map[string]any{"complaint_id": complaint.ID, "to": complaint.ApplicantWhatsapp}
		s.logg.Error(s.logg.WithFields(ctx, fields), "complaint.whatsapp.create", err)
	}
}

func (s *service) Get(ctx context.Context, id uint) (*models.Complaint, error) {
	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load complaint")
	}
	if complaint == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
	}
	return complaint, nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*models.Complaint, error) {
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint number required")
	}
	complaint, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load complaint")
	}
	if complaint == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
	}
	return complaint, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, listComplaintsParams{
		BranchID:     params.BranchID,
		TechnicianID: params.TechnicianID,
		Query:        params.Query,
		Page:         params.Page,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list complaints")
	}
	return &ListResult{Items: rows, Meta: pagination.NewMeta(params.Page, total)}, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput, actingStaffID uint) (*models.Complaint, error) {
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid complaint status").
			WithDetails(map[string]any{"status": string(input.Status)})
	}

	if err := s.checkSerialNumbers(ctx, id, input); err != nil {
		return nil, err
	}

	// admission cap: counted before the switch takes effect
	if input.Status == enums.ComplaintStatusFeedbackPending {
		count, err := s.repo.CountByStatus(ctx, enums.ComplaintStatusFeedbackPending)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count feedback-pending complaints")
		}
		if count >= feedbackPendingCap {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("feedback-pending limit of %d complaints reached, close pending feedback first", feedbackPendingCap))
		}
	}

	oldStatus := complaint.Status
	before, err := snapshot(complaint)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot complaint")
	}

	input.apply(complaint)

	var (
		assignInput  jobs.AssignInput
		assignResult *jobs.AssignResult
	)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.Save(ctx, complaint); err != nil {
			return fmt.Errorf("save complaint: %w", err)
		}

		after, err := snapshot(complaint)
		if err != nil {
			return fmt.Errorf("snapshot complaint: %w", err)
		}
		data, err := json.Marshal(complaint)
		if err != nil {
			return fmt.Errorf("encode history data: %w", err)
		}

		history := models.ComplaintHistory{
			ComplaintID: complaint.ID,
			UserID:      actingStaffID,
			Description: renderChanges(before, after),
			Data:        data,
		}
		if err := repo.CreateHistory(ctx, &history); err != nil {
			return fmt.Errorf("create history: %w", err)
		}

		if input.SendMessageToTechnician && input.Technician != nil && s.assigner != nil {
			assignInput = jobs.AssignInput{
				ComplaintID:   complaint.ID,
				TechnicianID:  *input.Technician,
				AssignerID:    actingStaffID,
				BranchID:      complaint.BranchID,
				Description:   input.JobDescription,
				Notify:        true,
				ComplaintNum:  complaint.ComplainNum,
				ApplicantName: complaint.ApplicantName,
				Product:       derefString(complaint.Product),
				Tx:            tx,
			}
			result, err := s.assigner.Assign(ctx, assignInput)
			if err != nil {
				return fmt.Errorf("assign technician: %w", err)
			}
			assignResult = result
		}

		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "complaint update conflicts with an existing record")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update complaint")
	}

	// side effects run only after the transaction committed
	if assignResult != nil {
		s.assigner.NotifyAssigned(ctx, assignInput, assignResult)
	}

	if s.notifier != nil && input.Technician != nil && *input.Technician == actingStaffID {
		s.notifier.Publish(ctx, notifications.PublishInput{
			Title:    "Complaint updated",
			Message:  fmt.Sprintf("Complaint %s has been updated", complaint.ComplainNum),
			Severity: enums.SeverityInfo,
			Link:     fmt.Sprintf(crmComplaintLinkFormat, complaint.ID),
			StaffID:  actingStaffID,
			Type:     enums.NotificationTypeComplaintUpdate,
			Params:   map[string]any{"complaint_id": complaint.ID},
		})
	}

	if (input.Status == enums.ComplaintStatusClosed || input.Status == enums.ComplaintStatusCancelled) && oldStatus != input.Status {
		s.sendClosureMessage(ctx, complaint, input.Status)
	}

	return complaint, nil
}

// checkSerialNumbers enforces the new-installation serial rules: required for
// the strict status set, unique whenever present.
func (s *service) checkSerialNumbers(ctx context.Context, id uint, input UpdateInput) error {
	if enums.ComplaintType(input.ComplaintType) != enums.ComplaintTypeNewInstallation {
		return nil
	}

	required := enums.RequiresSerialNumbers(input.ComplaintType, input.Status)
	if required {
		details := map[string]string{}
		if derefString(input.SerialNumberInd) == "" {
			details["serial_number_ind"] = "is required"
		}
		if derefString(input.SerialNumberOud) == "" {
			details["serial_number_oud"] = "is required"
		}
		if len(details) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "serial numbers required for this status").WithDetails(details)
		}
	}

	for column, value := range map[string]string{
		"serial_number_ind": derefString(input.SerialNumberInd),
		"serial_number_oud": derefString(input.SerialNumberOud),
	} {
		if value == "" {
			continue
		}
		taken, err := s.repo.SerialNumberTaken(ctx, column, value, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check serial number uniqueness")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "serial number already registered on another complaint").
				WithDetails(map[string]any{"field": column, "value": value})
		}
	}
	return nil
}

func (s *service) sendClosureMessage(ctx context.Context, complaint *models.Complaint, status enums.ComplaintStatus) {
	if s.wa == nil || complaint.ApplicantWhatsapp == "" {
		return
	}

	message := fmt.Sprintf("Dear *%s*,\n\n", complaint.ApplicantName)
	if status == enums.ComplaintStatusClosed {
		message += fmt.Sprintf("Apki shikayat (ID: %s) ka masla hal kar diya gaya hai.\n\n", complaint.ComplainNum)
		message += "*Shukriya Tasker Company ka intekhab karne ka.*\n\n"
		message += "Barah-e-karam mazeed maloomat ya madad ke liye neeche diye gaye raabta zaraye istemal karein:\n\n"
	} else {
		message += fmt.Sprintf("Apki shikayat (ID: %s) cancel kar di gayi hai.\n\n", complaint.ComplainNum)
		message += "*Agar aap ko kisi qisam ka masla ho ya madad darkar ho to barah-e-karam neeche diye gaye raabta zaraye istemal karein:*\n\n"
	}
	message += fmt.Sprintf("- *Helpline:* %s\n", helplineNumber)
	message += fmt.Sprintf("- *Website:* %s\n\n", companyWebsite)
	message += directContactDisclaimer
	message += "\n\nBest regards,\nTasker Company"

	if err := s.wa.SendText(ctx, complaint.ApplicantWhatsapp, message); err != nil {
		fields := map[string]any{"complaint_id": complaint.ID, "status": string(status)}
		s.logg.Error(s.logg.WithFields(ctx, fields), "complaint.whatsapp.closure", err)
	}
}

// MarkTechnicianReached flips the complaint to technician_reached and
// records the transition in its history.
func (s *service) MarkTechnicianReached(ctx context.Context, id, actingStaffID uint) (*models.Complaint, error) {
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before, err := snapshot(complaint)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot complaint")
	}

	complaint.Status = enums.ComplaintStatusTechnicianReached

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.Save(ctx, complaint); err != nil {
			return fmt.Errorf("save complaint: %w", err)
		}

		after, err := snapshot(complaint)
		if err != nil {
			return fmt.Errorf("snapshot complaint: %w", err)
		}
		data, err := json.Marshal(complaint)
		if err != nil {
			return fmt.Errorf("encode history data: %w", err)
		}

		history := models.ComplaintHistory{
			ComplaintID: complaint.ID,
			UserID:      actingStaffID,
			Description: renderChanges(before, after),
			Data:        data,
		}
		return repo.CreateHistory(ctx, &history)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark technician reached")
	}
	return complaint, nil
}

func (s *service) Cancel(ctx context.Context, id uint, input CancelInput) error {
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	complaint.Status = enums.ComplaintStatusCancelled
	complaint.CancellationReason = &input.Reason
	complaint.CancellationDetails = &input.Details
	if input.File != nil {
		complaint.CancellationFile = input.File
	}

	if err := s.repo.Save(ctx, complaint); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel complaint")
	}
	return nil
}

func (s *service) Schedule(ctx context.Context, id uint, input ScheduleInput) error {
	if !input.Date.After(time.Now()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "schedule date must be in the future")
	}

	complaint, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		complaint.Status = enums.ComplaintStatusScheduled
		if err := repo.Save(ctx, complaint); err != nil {
			return fmt.Errorf("save complaint: %w", err)
		}

		schedule := models.Schedule{
			ComplaintID:      complaint.ID,
			Date:             input.Date,
			ComplaintDetails: input.Details,
		}
		if err := repo.CreateSchedule(ctx, &schedule); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		return nil
	})
}

func (s *service) Delete(ctx context.Context, id uint) error {
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.DeleteHistories(ctx, complaint.ID); err != nil {
			return fmt.Errorf("delete histories: %w", err)
		}
		if s.assigner != nil {
			if err := s.assigner.DeleteForComplaint(ctx, tx, complaint.ID); err != nil {
				return fmt.Errorf("delete assigned jobs: %w", err)
			}
		}
		if err := repo.Delete(ctx, complaint.ID); err != nil {
			return fmt.Errorf("delete complaint: %w", err)
		}
		return nil
	})
}

func (s *service) Histories(ctx context.Context, id uint) ([]models.ComplaintHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	histories, err := s.repo.ListHistories(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list histories")
	}
	return histories, nil
}

func (s *service) StatusCounts(ctx context.Context, branchID uint) (map[enums.ComplaintStatus]int64, error) {
	counts, err := s.repo.StatusCounts(ctx, branchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count complaints")
	}
	return counts, nil
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
