package staff

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/auth"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/config"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/security"
)

const tempPasswordLength = 12

// Service defines staff directory and authentication operations.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*models.Staff, error)
	Get(ctx context.Context, id uint) (*models.Staff, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo   Repository
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	logg   *logger.Logger
	now    func() time.Time
}

// NewService wires the staff directory dependencies.
func NewService(repo Repository, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "staff repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:   repo,
		jwtCfg: jwtCfg,
		pwCfg:  pwCfg,
		logg:   logg,
		now:    time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password required")
	}
	if input.Phone == "" && input.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone or email required")
	}

	member, err := s.repo.FindByLogin(ctx, input.Phone, input.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff")
	}
	if member == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}

	ok, err := security.VerifyPassword(input.Password, member.Password)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	// administrators bypass the CRM access flag
	if !member.HasCRMAccess && member.Role != enums.StaffRoleAdministrator {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you are not authorized to access this application")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		StaffID:  member.ID,
		Role:     member.Role,
		BranchID: member.BranchID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"staff_id": member.ID}), "staff login")
	return &LoginResult{Token: token, Staff: *member}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	role, err := enums.ParseStaffRole(input.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	username := slugify(input.FullName)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name required")
	}

	taken, err := s.repo.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a staff member with this name already exists")
	}
	taken, err = s.repo.PhoneTaken(ctx, input.PhoneNumber, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check phone number")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
	}

	result := &CreateResult{}
	password := input.Password
	if password == "" {
		password, err = security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temporary password")
		}
		result.TempPassword = password
	}
	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	status := input.Status
	if status == "" {
		status = "active"
	}

	member := models.Staff{
		FullName:             input.FullName,
		Username:             username,
		FatherName:           input.FatherName,
		ContactEmail:         input.ContactEmail,
		PhoneNumber:          input.PhoneNumber,
		SecondaryPhoneNumber: input.SecondaryPhoneNumber,
		Password:             hash,
		FullAddress:          input.FullAddress,
		State:                input.State,
		City:                 input.City,
		Salary:               input.Salary,
		BranchID:             input.BranchID,
		ProfileImage:         input.ProfileImage,
		Role:                 role,
		Status:               status,
		HasCRMAccess:         input.HasCRMAccess,
	}
	if err := s.repo.Create(ctx, &member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create staff")
	}

	result.Staff = member
	return result, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Staff, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := enums.ParseStaffRole(input.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	taken, err := s.repo.PhoneTaken(ctx, input.PhoneNumber, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check phone number")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
	}

	member.FullName = input.FullName
	member.FatherName = input.FatherName
	member.ContactEmail = input.ContactEmail
	member.PhoneNumber = input.PhoneNumber
	member.SecondaryPhoneNumber = input.SecondaryPhoneNumber
	member.FullAddress = input.FullAddress
	member.State = input.State
	member.City = input.City
	member.Salary = input.Salary
	member.BranchID = input.BranchID
	member.ProfileImage = input.ProfileImage
	member.Role = role
	member.HasCRMAccess = input.HasCRMAccess
	if input.Status != "" {
		member.Status = input.Status
	}
	if input.Password != "" {
		hash, err := security.HashPassword(input.Password, s.pwCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		member.Password = hash
	}

	if err := s.repo.Save(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save staff")
	}
	return member, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Staff, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff")
	}
	if member == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff not found")
	}
	return member, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var role enums.StaffRole
	if params.Role != "" {
		parsed, err := enums.ParseStaffRole(params.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		role = parsed
	}

	rows, total, err := s.repo.List(ctx, listStaffParams{
		Search:   params.Search,
		Status:   params.Status,
		Role:     role,
		BranchID: params.BranchID,
		Page:     params.Page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	return &ListResult{Items: rows, Meta: pagination.NewMeta(params.Page, total)}, nil
}

// slugify lowercases the name and joins its alphanumeric runs with hyphens.
func slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}
