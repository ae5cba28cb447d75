package intake

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/taskercompanyofficial/taskercompany-api/internal/catalog"
	"github.com/taskercompanyofficial/taskercompany-api/internal/complaints"
	"github.com/taskercompanyofficial/taskercompany-api/internal/notifications"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/whatsapp"
)

// Registration walks steps 1..8; each step stores the previous answer
// and prompts for the next field.
const (
	stepName = iota + 1
	stepPhone
	stepWhatsapp
	stepAddress
	stepBranch
	stepType
	stepBrand
	stepDescription
)

const (
	msgWelcome = "Welcome to Tasker Company! We are a leading HVACR service provider in Lahore and Rawalpindi, " +
		"offering expert solutions for air conditioning, heating, ventilation and refrigeration needs. " +
		"Would you like support, register a complaint, or check complaint status?"
	msgSupport        = "Our team will contact you soon. For urgent matters, you can call us on +92 302 5117000"
	msgAskNumber      = "Please enter your complaint number:"
	msgAskName        = "Please enter your name:"
	msgAskPhone       = "Please enter your phone number:"
	msgAskWhatsapp    = "Please enter your WhatsApp number:"
	msgAskAddress     = "Please enter your address:"
	msgInvalidBranch  = "Invalid branch selection. Please try again."
	msgAskType        = "Please enter the complaint type:"
	msgAskBrand       = "Please enter the product brand:"
	msgAskDescription = "Please enter the complaint description:"
	msgCreateFailed   = "There was an issue registering your complaint. Please try again later."
	msgStatusNotFound = "Sorry, we couldn't find a complaint with that number. Please check the number and try again."
	msgRestart        = "Something went wrong. Please type 'hi' to start over."
	msgHelp           = "Sorry, I didn't understand that. Type 'hi' or 'hello' to start."
)

var menuButtons = []whatsapp.Button{
	{ID: "support", Title: "Support"},
	{ID: "register_complaint", Title: "Register Complaint"},
	{ID: "check_status", Title: "Check Status"},
}

// Messenger sends replies back to the conversation.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, body string, buttons []whatsapp.Button) error
}

// ComplaintIntake is the complaint surface the bot drives.
type ComplaintIntake interface {
	Create(ctx context.Context, input complaints.CreateInput, actingStaffID uint) (*models.Complaint, error)
	GetByNumber(ctx context.Context, number string) (*models.Complaint, error)
}

// Catalog supplies the branch menu and brand matching.
type Catalog interface {
	ListBranches(ctx context.Context, params catalog.ListParams) (*pagination.Page[models.Branch], error)
	ListBrands(ctx context.Context, params catalog.ListParams) (*pagination.Page[models.Brand], error)
}

// Notifier fans a CRM event out to connected staff clients.
type Notifier interface {
	Publish(ctx context.Context, input notifications.PublishInput)
}

// Service drives the WhatsApp intake bot: one inbound message advances
// the sender's conversation and produces one reply.
type Service interface {
	HandleMessage(ctx context.Context, from, text string) error
}

type service struct {
	sessions   SessionStore
	complaints ComplaintIntake
	catalog    Catalog
	messenger  Messenger
	notifier   Notifier
	logg       *logger.Logger
}

// NewService wires the intake bot.
func NewService(sessions SessionStore, complaintSvc ComplaintIntake, catalogSvc Catalog, messenger Messenger, notifier Notifier, logg *logger.Logger) (Service, error) {
	if sessions == nil || complaintSvc == nil || catalogSvc == nil || messenger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "intake service requires sessions, complaints, catalog and messenger")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		sessions:   sessions,
		complaints: complaintSvc,
		catalog:    catalogSvc,
		messenger:  messenger,
		notifier:   notifier,
		logg:       logg,
	}, nil
}

func (s *service) HandleMessage(ctx context.Context, from, text string) error {
	input := strings.ToLower(strings.TrimSpace(text))
	if from == "" || input == "" {
		return nil
	}

	if s.notifier != nil {
		s.notifier.Publish(ctx, notifications.PublishInput{
			Title:    "New WhatsApp Message",
			Message:  "A new message has been received on WhatsApp.",
			Severity: enums.SeverityInfo,
		})
	}

	// Menu commands win over any in-flight conversation.
	switch input {
	case "hi", "hello":
		return s.messenger.SendButtons(ctx, from, msgWelcome, menuButtons)
	case "support":
		return s.messenger.SendText(ctx, from, msgSupport)
	case "register_complaint":
		if err := s.sessions.Put(ctx, from, &Session{Mode: modeCollect, Step: stepName}); err != nil {
			return err
		}
		return s.messenger.SendText(ctx, from, msgAskName)
	case "check_status":
		if err := s.sessions.Put(ctx, from, &Session{Mode: modeCheckStatus}); err != nil {
			return err
		}
		return s.messenger.SendText(ctx, from, msgAskNumber)
	}

	sess, err := s.sessions.Get(ctx, from)
	if err != nil {
		return err
	}
	if sess == nil {
		return s.messenger.SendText(ctx, from, msgHelp)
	}

	switch sess.Mode {
	case modeCheckStatus:
		return s.checkStatus(ctx, from, strings.TrimSpace(text))
	case modeCollect:
		return s.collect(ctx, from, strings.TrimSpace(text), sess)
	default:
		if err := s.sessions.Delete(ctx, from); err != nil {
			return err
		}
		return s.messenger.SendText(ctx, from, msgRestart)
	}
}

// checkStatus resolves a single complaint-number lookup and always ends
// the conversation.
func (s *service) checkStatus(ctx context.Context, from, number string) error {
	if err := s.sessions.Delete(ctx, from); err != nil {
		return err
	}

	complaint, err := s.complaints.GetByNumber(ctx, number)
	if err != nil || complaint == nil {
		if err != nil {
			s.logg.Error(s.logg.WithFields(ctx, map[string]any{"number": number}), "intake.status.lookup", err)
		}
		return s.messenger.SendText(ctx, from, msgStatusNotFound)
	}

	reply := fmt.Sprintf("Complaint Details:\nNumber: %s\nStatus: %s\nType: %s\nDescription: %s",
		complaint.ComplainNum, complaint.Status, complaint.ComplaintType, complaint.Description)
	return s.messenger.SendText(ctx, from, reply)
}

func (s *service) collect(ctx context.Context, from, answer string, sess *Session) error {
	switch sess.Step {
	case stepName:
		sess.ApplicantName = answer
		return s.advance(ctx, from, sess, msgAskPhone)
	case stepPhone:
		sess.ApplicantPhone = answer
		return s.advance(ctx, from, sess, msgAskWhatsapp)
	case stepWhatsapp:
		sess.ApplicantWhatsapp = answer
		return s.advance(ctx, from, sess, msgAskAddress)
	case stepAddress:
		sess.ApplicantAddress = answer
		menu, ids, err := s.branchMenu(ctx)
		if err != nil {
			return err
		}
		sess.BranchIDs = ids
		return s.advance(ctx, from, sess, menu)
	case stepBranch:
		pick, err := strconv.Atoi(answer)
		if err != nil || pick < 1 || pick > len(sess.BranchIDs) {
			if err := s.sessions.Put(ctx, from, sess); err != nil {
				return err
			}
			return s.messenger.SendText(ctx, from, msgInvalidBranch)
		}
		sess.BranchID = sess.BranchIDs[pick-1]
		return s.advance(ctx, from, sess, msgAskType)
	case stepType:
		sess.ComplaintType = answer
		return s.advance(ctx, from, sess, msgAskBrand)
	case stepBrand:
		sess.Brand = answer
		return s.advance(ctx, from, sess, msgAskDescription)
	case stepDescription:
		return s.register(ctx, from, answer, sess)
	default:
		if err := s.sessions.Delete(ctx, from); err != nil {
			return err
		}
		return s.messenger.SendText(ctx, from, msgRestart)
	}
}

// advance stores the session at the next step and sends the prompt.
func (s *service) advance(ctx context.Context, from string, sess *Session, prompt string) error {
	sess.Step++
	if err := s.sessions.Put(ctx, from, sess); err != nil {
		return err
	}
	return s.messenger.SendText(ctx, from, prompt)
}

// register creates the complaint from the collected answers. The
// session ends whether or not the creation succeeds.
func (s *service) register(ctx context.Context, from, description string, sess *Session) error {
	if err := s.sessions.Delete(ctx, from); err != nil {
		return err
	}

	input := complaints.CreateInput{
		ApplicantName:     sess.ApplicantName,
		ApplicantPhone:    sess.ApplicantPhone,
		ApplicantWhatsapp: sess.ApplicantWhatsapp,
		ApplicantAddress:  sess.ApplicantAddress,
		BranchID:          sess.BranchID,
		ComplaintType:     sess.ComplaintType,
		Description:       description,
	}
	if id := s.matchBrand(ctx, sess.Brand); id != 0 {
		input.BrandID = &id
	} else if sess.Brand != "" {
		product := sess.Brand
		input.Product = &product
	}

	complaint, err := s.complaints.Create(ctx, input, 0)
	if err != nil {
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{"applicant_phone": sess.ApplicantPhone}), "intake.register", err)
		return s.messenger.SendText(ctx, from, msgCreateFailed)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"complaint_number": complaint.ComplainNum}), "intake complaint registered")
	return s.messenger.SendText(ctx, from,
		fmt.Sprintf("Complaint registered successfully! Your complaint number is %s.", complaint.ComplainNum))
}

// branchMenu renders the numbered branch list and the id order behind it.
func (s *service) branchMenu(ctx context.Context) (string, []uint, error) {
	page, err := s.catalog.ListBranches(ctx, catalog.ListParams{
		Status: "active",
		Page:   pagination.Params{PerPage: pagination.MaxPerPage},
	})
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("Please select a branch number:")
	ids := make([]uint, 0, len(page.Data))
	for i, branch := range page.Data {
		fmt.Fprintf(&b, "\n%d. %s", i+1, branch.Name)
		ids = append(ids, branch.ID)
	}
	return b.String(), ids, nil
}

// matchBrand resolves free-text brand input against the catalog.
// Unmatched text is kept on the complaint as the product field.
func (s *service) matchBrand(ctx context.Context, name string) uint {
	if name == "" {
		return 0
	}
	page, err := s.catalog.ListBrands(ctx, catalog.ListParams{
		Search: name,
		Page:   pagination.Params{PerPage: 1},
	})
	if err != nil || len(page.Data) == 0 {
		return 0
	}
	return page.Data[0].ID
}
