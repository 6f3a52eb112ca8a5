// Package mocks provides shared test doubles for the store, token, password
// and audit interfaces.
//
// Two styles are used. Store mocks embed testify's mock.Mock so tests can set
// expectations with On/Return and verify them with AssertExpectations. The
// JWT service and password verifier use function fields with plain default
// values, which keeps handler tests short:
//
//	jwtSvc := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{UserID: 1, Role: domain.RoleAdmin}, nil
//	    },
//	}
//
// Mocks of service interfaces live next to the handler tests that use them,
// since the service package's own tests import this package.
package mocks
