package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/smashpoint/badminton-league/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			// Programmer error: a non-pointer was passed to Decode.
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	idStr := chi.URLParam(r, param)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", param)
	}
	return id, nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP translates service layer errors into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrVenueNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		notFoundResponse(w, r)

	// Conflicts with current state
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyTeamMember),
		errors.Is(err, services.ErrTeamFull),
		errors.Is(err, services.ErrLastAdmin):
		conflictResponse(w, r, err.Error())

	// Invalid input, business rules, score report sequencing
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrMatchFinished),
		errors.Is(err, services.ErrAllSetsComplete),
		errors.Is(err, services.ErrWrongSet),
		errors.Is(err, services.ErrSetAlreadyComplete),
		errors.Is(err, services.ErrIllegalStatusChange),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrNameTooShort),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrTeamNameInvalid),
		errors.Is(err, services.ErrInvalidInviteCode),
		errors.Is(err, services.ErrCommentEmpty),
		errors.Is(err, services.ErrCommentTooLong),
		errors.Is(err, services.ErrNotesTooLong),
		errors.Is(err, services.ErrInvalidSkillLevel),
		errors.Is(err, services.ErrInvalidAvailability),
		errors.Is(err, services.ErrInvalidMatchType),
		errors.Is(err, services.ErrInvalidMatchStatus),
		errors.Is(err, services.ErrVenueNameInvalid),
		errors.Is(err, services.ErrVenueCourtsInvalid),
		errors.Is(err, services.ErrVenueNotOnTeam),
		errors.Is(err, services.ErrPlayerNotOnTeam),
		errors.Is(err, services.ErrDuplicatePlayer),
		errors.Is(err, services.ErrDuplicatePosition),
		errors.Is(err, services.ErrInvalidPosition),
		errors.Is(err, services.ErrWrongPlayerCount),
		errors.Is(err, services.ErrScheduledAtRequired),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrInvalidSetNumber):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrUnsupportedAvatarType):
		errorResponse(w, r, http.StatusUnsupportedMediaType, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())

	case errors.Is(err, services.ErrNotTeamMember),
		errors.Is(err, services.ErrAdminOnly),
		errors.Is(err, services.ErrNotProfileOwner):
		forbiddenResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}
