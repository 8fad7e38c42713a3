package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/leadzone/internal/entity"
)

type OpenBillingPortalUseCase struct {
	Guard            *AuthorizationGuard
	Gateway          BillingPortalGateway
	DefaultReturnURL string
}

func NewOpenBillingPortalUseCase(guard *AuthorizationGuard, gateway BillingPortalGateway, defaultReturnURL string) *OpenBillingPortalUseCase {
	return &OpenBillingPortalUseCase{
		Guard:            guard,
		Gateway:          gateway,
		DefaultReturnURL: defaultReturnURL,
	}
}

// Execute hands back a provider-hosted portal URL. Nothing local changes and
// the provider is called at most once.
func (uc *OpenBillingPortalUseCase) Execute(ctx context.Context, input OpenBillingPortalInput) (*OpenBillingPortalOutput, error) {
	returnURL := strings.TrimSpace(input.ReturnURL)
	if returnURL == "" {
		returnURL = uc.DefaultReturnURL
	}
	if returnURL != "" && !isAbsoluteHTTPURL(returnURL) {
		return nil, validationFailed([]ValidationError{{"returnUrl", "must be an absolute http(s) URL"}})
	}

	caller, err := uc.Guard.Authenticate(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if caller.Privileged {
		return nil, forbidden("billing portal requires a user session")
	}

	profile, err := uc.Guard.ResolveProfile(ctx, caller.UserID)
	if err != nil && CodeOf(err) != CodeNotFound {
		return nil, err
	}
	if !profile.HasBillingAccount() {
		return nil, &DomainError{Code: CodeNoBillingAccount, Message: "no billing account found"}
	}

	portalURL, err := uc.Gateway.CreatePortalSession(ctx, profile.StripeCustomerID, returnURL)
	if err != nil {
		return nil, upstream("failed to create billing portal session", err)
	}
	return &OpenBillingPortalOutput{URL: portalURL}, nil
}

type ScheduleFollowupUseCase struct {
	Guard       *AuthorizationGuard
	Repo        entity.ScheduledEmailRepositoryInterface
	DefaultDays int
	Now         func() time.Time
}

func NewScheduleFollowupUseCase(guard *AuthorizationGuard, repo entity.ScheduledEmailRepositoryInterface, defaultDays int) *ScheduleFollowupUseCase {
	return &ScheduleFollowupUseCase{
		Guard:       guard,
		Repo:        repo,
		DefaultDays: defaultDays,
		Now:         time.Now,
	}
}

// Execute writes a future-dated delivery row. Delivery itself belongs to an
// external worker and is not tracked here.
func (uc *ScheduleFollowupUseCase) Execute(ctx context.Context, input ScheduleFollowupInput) (*entity.ScheduledEmail, error) {
	errs := checkID(nil, "userId", input.UserID)

	days := uc.DefaultDays
	if input.DaysToWait != nil {
		days = *input.DaysToWait
	}
	if days < 0 || days > maxFollowupDays {
		errs = append(errs, ValidationError{"daysToWait", "must be between 0 and 365"})
	}

	var zip string
	if strings.TrimSpace(input.ZipCode) != "" {
		errs, zip = checkZip(errs, "zipCode", input.ZipCode)
	}

	emailType := strings.TrimSpace(input.Type)
	switch emailType {
	case "":
		emailType = entity.EmailTypeFollowup
	case entity.EmailTypeFollowup, entity.EmailTypeTerritoryWelcome:
	default:
		errs = append(errs, ValidationError{"type", "is not a known email type"})
	}

	if err := validationFailed(errs); err != nil {
		return nil, err
	}

	caller, err := uc.Guard.Authenticate(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	userID := strings.TrimSpace(input.UserID)
	if err := uc.Guard.AuthorizeSubject(ctx, caller, userID); err != nil {
		return nil, err
	}

	email := entity.NewScheduledEmail(userID, zip, emailType, uc.Now().UTC(), time.Duration(days)*24*time.Hour)
	if err := uc.Repo.Create(ctx, email); err != nil {
		return nil, upstream("failed to schedule email", err)
	}
	return email, nil
}

type SetAdminUseCase struct {
	Guard       *AuthorizationGuard
	Directory   IdentityDirectory
	Profiles    entity.ProfileRepositoryInterface
	TargetEmail string
	Now         func() time.Time
}

func NewSetAdminUseCase(
	guard *AuthorizationGuard,
	directory IdentityDirectory,
	profiles entity.ProfileRepositoryInterface,
	targetEmail string,
) *SetAdminUseCase {
	return &SetAdminUseCase{
		Guard:       guard,
		Directory:   directory,
		Profiles:    profiles,
		TargetEmail: targetEmail,
		Now:         time.Now,
	}
}

// Execute promotes the configured bootstrap email to admin. Service
// credential only; running it twice changes nothing.
func (uc *SetAdminUseCase) Execute(ctx context.Context, input SetAdminInput) (*entity.Profile, error) {
	caller, err := uc.Guard.Authenticate(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.RequirePrivileged(caller); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.TargetEmail)
	if email == "" {
		email = uc.TargetEmail
	}
	if email == "" || !isValidEmail(email) {
		return nil, validationFailed([]ValidationError{{"email", "a valid target email is required"}})
	}

	user, err := uc.Directory.FindUserByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, upstream("failed to look up user", err)
	}

	profile, err := uc.Profiles.PromoteAdmin(ctx, user.ID, user.Email, uc.Now().UTC())
	if err != nil {
		return nil, upstream("failed to update profile", err)
	}
	return profile, nil
}

type LinkBillingCustomerUseCase struct {
	Profiles entity.ProfileRepositoryInterface
	Now      func() time.Time
}

func NewLinkBillingCustomerUseCase(profiles entity.ProfileRepositoryInterface) *LinkBillingCustomerUseCase {
	return &LinkBillingCustomerUseCase{Profiles: profiles, Now: time.Now}
}

// Execute records the provider's customer id on the profile. Callers must
// have verified the provider event already.
func (uc *LinkBillingCustomerUseCase) Execute(ctx context.Context, input LinkBillingCustomerInput) error {
	errs := checkID(nil, "userId", input.UserID)
	errs = checkID(errs, "stripeCustomerId", input.StripeCustomerID)
	if err := validationFailed(errs); err != nil {
		return err
	}

	err := uc.Profiles.LinkStripeCustomer(ctx, strings.TrimSpace(input.UserID), strings.TrimSpace(input.StripeCustomerID), uc.Now().UTC())
	if errors.Is(err, entity.ErrNotFound) {
		return notFound("profile not found")
	}
	if err != nil {
		return upstream("failed to link billing customer", err)
	}
	return nil
}

type SignOutUseCase struct {
	Directory IdentityDirectory
}

func NewSignOutUseCase(directory IdentityDirectory) *SignOutUseCase {
	return &SignOutUseCase{Directory: directory}
}

// Execute ends the caller's session. A session that is already gone counts
// as signed out.
func (uc *SignOutUseCase) Execute(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	err := uc.Directory.SignOut(ctx, token)
	if err == nil || errors.Is(err, entity.ErrSessionNotFound) {
		return nil
	}
	return upstream("failed to sign out", err)
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
