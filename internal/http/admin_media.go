package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/storage"
)

const maxLogoBytes = 2 << 20

var logoExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadLogoHandler stores the multipart "logo" field and points the team at it.
// The previous logo is deleted once the team row is updated.
func (s *Server) UploadLogoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Uploader == nil {
			unavailable(w, "logo storage")
			return
		}
		ctx := r.Context()
		team, err := s.League.GetTeam(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes+1<<10)
		file, _, err := r.FormFile("logo")
		if err != nil {
			writeError(w, r, league.Validationf("missing logo field: %v", err))
			return
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
		if err != nil {
			writeError(w, r, league.Validationf("failed to read logo: %v", err))
			return
		}
		if len(data) > maxLogoBytes {
			writeError(w, r, league.Validationf("logo must not be larger than %d bytes", maxLogoBytes))
			return
		}
		contentType := http.DetectContentType(data)
		ext, ok := logoExtensions[contentType]
		if !ok {
			writeError(w, r, league.Validationf("unsupported logo type %s", contentType))
			return
		}

		key := "teams/" + team.ID + "/" + uuid.NewString() + ext
		url, err := s.Uploader.Upload(ctx, key, contentType, bytes.NewReader(data))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.League.SetTeamLogo(ctx, team.ID, url); err != nil {
			writeError(w, r, err)
			return
		}
		if old := storage.KeyFromURL(s.Cfg.Logo.PublicBaseURL, team.LogoURL); old != "" {
			if err := s.Uploader.Delete(ctx, old); err != nil {
				log.Warn("Failed to delete previous logo", "teamID", team.ID, "key", old, "error", err)
			}
		}

		team.LogoURL = url
		writeJSON(w, http.StatusOK, team)
	}
}
