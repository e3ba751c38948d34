package wizard

import "errors"

// User-visible messages.
const (
	MsgParseFailed    = "Gagal membaca CV. Silakan coba lagi atau isi manual."
	MsgEmptyCV        = "Mohon isi atau upload CV terlebih dahulu."
	MsgConnection     = "Terjadi kesalahan koneksi. Silakan coba lagi."
	MsgReplyMissing   = "Maaf, terjadi kesalahan."
	MsgChatOffline    = "Maaf, saya tidak dapat terhubung saat ini."
	MsgGreeting       = "Halo! Saya asisten karir AI Anda. Ada yang bisa saya bantu mengenai rencana karir atau rekomendasi pelatihan?"
	MsgEmptyMessage   = "Pesan tidak boleh kosong."
	MsgNoFile         = "Mohon pilih file CV terlebih dahulu."
	MsgFileTooLarge   = "Ukuran file melebihi batas maksimum."
	MsgBusy           = "Mohon tunggu balasan sebelumnya."
	MsgNoSelection    = "Pilih okupasi terlebih dahulu."
	MsgNotReady       = "Rekomendasi belum siap."
	MsgNoCandidate    = "Okupasi tidak ditemukan di rekomendasi."
	MsgUnknownSession = "Sesi tidak ditemukan."
)

var (
	ErrEmptyCV        = errors.New(MsgEmptyCV)
	ErrEmptyMessage   = errors.New(MsgEmptyMessage)
	ErrNoFile         = errors.New(MsgNoFile)
	ErrFileTooLarge   = errors.New(MsgFileTooLarge)
	ErrBusy           = errors.New(MsgBusy)
	ErrNotReady       = errors.New(MsgNotReady)
	ErrNoCandidate    = errors.New(MsgNoCandidate)
	ErrNoSelection    = errors.New(MsgNoSelection)
	ErrUnknownSession = errors.New(MsgUnknownSession)
)

// StepError is a recoverable step failure. Message is shown to the user; the
// step stays usable.
type StepError struct {
	Message string
	Err     error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StepError) Unwrap() error {
	return e.Err
}
