package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// userInfoURL is a variable so tests can point it at a local server.
var userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Scopes are the permissions requested at login: reading courses and their
// posts, creating coursework and downloading attached Drive files.
var Scopes = []string{
	classroom.ClassroomCoursesReadonlyScope,
	classroom.ClassroomCourseworkMeScope,
	classroom.ClassroomCourseworkStudentsScope,
	classroom.ClassroomCourseworkmaterialsReadonlyScope,
	classroom.ClassroomAnnouncementsReadonlyScope,
	drive.DriveReadonlyScope,
	"https://www.googleapis.com/auth/userinfo.email",
}

// UserInfo contains the user's basic profile information from Google.
type UserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// OAuthConfig returns the OAuth2 client configuration for a desktop client.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       Scopes,
	}
}

// NewClassroomService creates a Classroom API service. Extra options
// (endpoint, HTTP client) are appended after the token source.
func NewClassroomService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*classroom.Service, error) {
	return classroom.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
}

// NewDriveService creates a Drive API service.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*drive.Service, error) {
	return drive.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
}

// GetUserInfo fetches the profile of the signed-in account.
func GetUserInfo(ctx context.Context, ts oauth2.TokenSource) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := oauth2.NewClient(ctx, ts).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request failed with status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}
