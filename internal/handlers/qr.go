package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// JoinQR serves a PNG QR code of the session join URL.
func (h *Handler) JoinQR(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	if _, err := h.registry.Get(sessionID); err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	base := h.config.Server.BaseURL
	if base == "" {
		base = "http://" + r.Host
	}
	joinURL := fmt.Sprintf("%s/session/%s", base, sessionID)

	png, err := renderQR(joinURL)
	if err != nil {
		h.log.Error().Err(err).Str("session", sessionID).Msg("failed to render qr code")
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func renderQR(url string) ([]byte, error) {
	qrc, err := qrcode.NewWith(url,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
		qrcode.WithEncodingMode(qrcode.EncModeByte),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopWriteCloser{&buf},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
	)

	if err := qrc.Save(writer); err != nil {
		return nil, fmt.Errorf("failed to save QR code: %w", err)
	}

	return buf.Bytes(), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
