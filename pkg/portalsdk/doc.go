/*
Package portalsdk is a client for the TnP placement portal.

# Client and Session

Client covers the unauthenticated and admin endpoints and starts sessions:

	client := portalsdk.NewClient("https://portal.example.com")

	report, err := client.Provision(ctx, adminToken, []portalsdk.ProvisionRow{
		{Identifier: "2021001", Email: "asha@college.example"},
	})

	session, err := client.Authenticate(ctx, "2021001", password)

Session carries the bearer token for student endpoints:

	if session.MustRotate() {
		err = session.ChangePassword(ctx, password, newPassword)
	}

	profile, err := session.GetProfile(ctx)

Tokens are not refreshed. When one expires, authenticate again.

# Errors

Non-2xx answers are returned as *APIError. The predefined errors match
with errors.Is on status and code:

	_, err := client.Login(ctx, id, pw)
	if errors.Is(err, portalsdk.ErrInvalidCredentials) {
		// wrong identifier or password
	}

Validation failures carry the offending fields in APIError.Details.
*/
package portalsdk
