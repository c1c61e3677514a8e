package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/nurpe/market-leases/internal/model"
)

var (
	namePattern     = regexp.MustCompile(`^[\p{L}\s]+$`)
	idNumberPattern = regexp.MustCompile(`^V?\d+(-\d+)?$`)
	phonePattern    = regexp.MustCompile(`^[0-9+\-()\s]+$`)

	validate = validator.New()
)

type AwardeeService struct {
	repo AwardeeStore
}

func NewAwardeeService(repo AwardeeStore) *AwardeeService {
	return &AwardeeService{repo: repo}
}

type AwardeeInput struct {
	FirstName      string `form:"first_name" json:"first_name"`
	MiddleName     string `form:"middle_name" json:"middle_name"`
	LastName       string `form:"last_name" json:"last_name"`
	SecondLastName string `form:"second_last_name" json:"second_last_name"`
	IDNumber       string `form:"id_number" json:"id_number"`
	Phone          string `form:"phone" json:"phone"`
	Email          string `form:"email" json:"email"`
	Address        string `form:"address" json:"address"`
}

func AwardeeInputFrom(a *model.Awardee) AwardeeInput {
	return AwardeeInput{
		FirstName:      a.FirstName,
		MiddleName:     a.MiddleName,
		LastName:       a.LastName,
		SecondLastName: a.SecondLastName,
		IDNumber:       a.IDNumber,
		Phone:          a.Phone,
		Email:          a.Email,
		Address:        a.Address,
	}
}

func (in AwardeeInput) normalized() AwardeeInput {
	return AwardeeInput{
		FirstName:      strings.TrimSpace(in.FirstName),
		MiddleName:     strings.TrimSpace(in.MiddleName),
		LastName:       strings.TrimSpace(in.LastName),
		SecondLastName: strings.TrimSpace(in.SecondLastName),
		IDNumber:       strings.ToUpper(strings.TrimSpace(in.IDNumber)),
		Phone:          strings.TrimSpace(in.Phone),
		Email:          strings.TrimSpace(in.Email),
		Address:        strings.TrimSpace(in.Address),
	}
}

func (s *AwardeeService) List(ctx context.Context, search string, page model.Page) (model.Paged[model.Awardee], error) {
	awardees, total, err := s.repo.List(ctx, search, page)
	if err != nil {
		return model.Paged[model.Awardee]{}, err
	}
	return model.NewPaged(awardees, total, page), nil
}

func (s *AwardeeService) ListAll(ctx context.Context) ([]model.Awardee, error) {
	return s.repo.ListAll(ctx)
}

func (s *AwardeeService) Get(ctx context.Context, id int64) (*model.Awardee, error) {
	awardee, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return awardee, nil
}

func (s *AwardeeService) Create(ctx context.Context, input AwardeeInput) (*model.Awardee, error) {
	awardee, err := s.validate(ctx, input, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, awardee); err != nil {
		return nil, err
	}
	return awardee, nil
}

func (s *AwardeeService) Update(ctx context.Context, id int64, input AwardeeInput) (*model.Awardee, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	awardee, err := s.validate(ctx, input, id)
	if err != nil {
		return nil, err
	}
	awardee.ID = existing.ID
	awardee.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, awardee); err != nil {
		return nil, err
	}
	return awardee, nil
}

func (s *AwardeeService) Delete(ctx context.Context, id int64) error {
	awardee, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountContracts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return conflict(fmt.Sprintf(
			"No se puede eliminar a %s porque tiene %d contrato(s) registrado(s).", awardee.FullName(), count))
	}
	return notFound(s.repo.Delete(ctx, id))
}

func (s *AwardeeService) validate(ctx context.Context, input AwardeeInput, excludeID int64) (*model.Awardee, error) {
	in := input.normalized()
	v := &ValidationError{}

	checkName(v, "first_name", "El primer nombre", in.FirstName, true)
	checkName(v, "middle_name", "El segundo nombre", in.MiddleName, false)
	checkName(v, "last_name", "El primer apellido", in.LastName, true)
	checkName(v, "second_last_name", "El segundo apellido", in.SecondLastName, false)

	switch n := utf8.RuneCountInString(in.IDNumber); {
	case n == 0:
		v.Add("id_number", "La cédula o pasaporte es requerido.")
	case n < 7 || n > 20:
		v.Add("id_number", "La cédula o pasaporte debe tener entre 7 y 20 caracteres.")
	case !idNumberPattern.MatchString(in.IDNumber):
		v.Add("id_number", "La cédula o pasaporte tiene un formato inválido (ejemplo: V12345678).")
	default:
		exists, err := s.repo.IDNumberExists(ctx, in.IDNumber, excludeID)
		if err != nil {
			return nil, err
		}
		if exists {
			v.Add("id_number", fmt.Sprintf("Ya existe un adjudicatario registrado con la cédula %s.", in.IDNumber))
		}
	}

	if in.Phone != "" {
		switch {
		case utf8.RuneCountInString(in.Phone) > 20:
			v.Add("phone", "El teléfono no puede exceder 20 caracteres.")
		case !phonePattern.MatchString(in.Phone):
			v.Add("phone", "El teléfono solo puede contener números, espacios y los caracteres + - ( ).")
		}
	}

	if in.Email != "" {
		switch {
		case utf8.RuneCountInString(in.Email) > 100:
			v.Add("email", "El correo electrónico no puede exceder 100 caracteres.")
		case validate.Var(in.Email, "email") != nil:
			v.Add("email", "El correo electrónico no es válido.")
		}
	}

	if utf8.RuneCountInString(in.Address) > 500 {
		v.Add("address", "La dirección no puede exceder 500 caracteres.")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return &model.Awardee{
		FirstName:      in.FirstName,
		MiddleName:     in.MiddleName,
		LastName:       in.LastName,
		SecondLastName: in.SecondLastName,
		IDNumber:       in.IDNumber,
		Phone:          in.Phone,
		Email:          in.Email,
		Address:        in.Address,
	}, nil
}

func checkName(v *ValidationError, field, label, value string, required bool) {
	if value == "" {
		if required {
			v.Add(field, label+" es requerido.")
		}
		return
	}
	if n := utf8.RuneCountInString(value); n < 2 || n > 50 {
		v.Add(field, label+" debe tener entre 2 y 50 caracteres.")
		return
	}
	if !namePattern.MatchString(value) {
		v.Add(field, label+" solo puede contener letras y espacios.")
	}
}
