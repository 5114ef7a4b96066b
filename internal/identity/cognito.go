package identity

import (
	"context"
	"errors"
	"fmt"

	"wastewatch/internal/utils"
	"wastewatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
)

var _ Provider = (*Cognito)(nil)

// CognitoAPI is the subset of the Cognito user pool client in use.
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	GetUser(ctx context.Context, params *cognitoidentityprovider.GetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error)
}

type Cognito struct {
	client   CognitoAPI
	clientID string
	logger   logrus.FieldLogger
}

func NewCognito(client CognitoAPI, clientID string, logger logrus.FieldLogger) *Cognito {
	return &Cognito{client: client, clientID: clientID, logger: logger}
}

func (c *Cognito) SignUp(ctx context.Context, email, password string) (*types.Identity, error) {
	input := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email), // use email as username
		Password: aws.String(password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	}

	out, err := c.client.SignUp(ctx, input)
	if err != nil {
		return nil, c.mapSignUpError(err)
	}

	return &types.Identity{
		UID:   aws.ToString(out.UserSub),
		Email: utils.StringPtr(email),
	}, nil
}

func (c *Cognito) SignIn(ctx context.Context, email, password string) (*types.Identity, error) {
	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	}

	resp, err := c.client.InitiateAuth(ctx, input)
	if err != nil {
		return nil, c.mapSignInError(err)
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		return nil, ErrInvalidCredentials
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)

	user, err := c.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signed in user: %w", err)
	}

	identity := &types.Identity{
		UID:       aws.ToString(user.Username),
		Token:     accessToken,
		ExpiresIn: int(resp.AuthenticationResult.ExpiresIn),
	}
	for _, attr := range user.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			identity.UID = aws.ToString(attr.Value)
		case "email":
			identity.Email = utils.StringPtr(aws.ToString(attr.Value))
		}
	}

	return identity, nil
}

// SignInAnonymously issues a fresh identity with no credentials behind it.
func (c *Cognito) SignInAnonymously(ctx context.Context) (*types.Identity, error) {
	return &types.Identity{
		UID:       utils.PrefixedNanoID("anon"),
		Anonymous: true,
	}, nil
}

func (c *Cognito) mapSignUpError(err error) error {
	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		return ErrIdentityExists
	}

	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		return fmt.Errorf("%w: %s", ErrInvalidSignUp, aws.ToString(invalidPw.Message))
	}

	var invalidParam *ctypes.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return fmt.Errorf("%w: %s", ErrInvalidSignUp, aws.ToString(invalidParam.Message))
	}

	c.logger.WithError(err).Error("unhandled cognito signup error")

	return fmt.Errorf("failed to sign up: %w", err)
}

func (c *Cognito) mapSignInError(err error) error {
	var notAuthorized *ctypes.NotAuthorizedException
	if errors.As(err, &notAuthorized) {
		return ErrInvalidCredentials
	}

	var notFound *ctypes.UserNotFoundException
	if errors.As(err, &notFound) {
		return ErrInvalidCredentials
	}

	var notConfirmed *ctypes.UserNotConfirmedException
	if errors.As(err, &notConfirmed) {
		return ErrNotConfirmed
	}

	return fmt.Errorf("failed to sign in: %w", err)
}
