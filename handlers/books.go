package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/bookstore/service"
	"go.uber.org/zap"
)

type BooksHandler struct {
	Books    *service.Books
	Images   service.ImageStore
	MaxBytes int64
	Log      *zap.Logger
}

// bookForm holds the fields a client sent. Absent fields stay nil.
type bookForm struct {
	ISBN     *string
	Title    *string
	Author   *string
	Price    *string
	ImageURL *string

	image string // stored upload, if any
}

type bookJSON struct {
	ISBN     *string `json:"isbn"`
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	Price    any     `json:"price"`
	ImageURL *string `json:"imageUrl"`
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.Books.List(r.Context())
	if err != nil {
		fail(w, r, h.Log, err, "Failed to fetch books")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.Books.Get(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		fail(w, r, h.Log, err, "Failed to fetch book")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"book": book})
}

func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}
	in := service.BookInput{
		ISBN:     deref(form.ISBN),
		Title:    deref(form.Title),
		Author:   deref(form.Author),
		Price:    deref(form.Price),
		ImageURL: deref(form.ImageURL),
	}
	book, err := h.Books.Create(r.Context(), in)
	if err != nil {
		h.discardImage(r, form.image)
		fail(w, r, h.Log, err, "Failed to add book")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"book": book})
}

func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}
	patch := service.BookPatch{
		Title:    form.Title,
		Author:   form.Author,
		Price:    form.Price,
		ImageURL: form.ImageURL,
	}
	book, err := h.Books.Update(r.Context(), chi.URLParam(r, "isbn"), patch)
	if err != nil {
		h.discardImage(r, form.image)
		fail(w, r, h.Log, err, "Failed to update book")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"book": book})
}

func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Books.Delete(r.Context(), chi.URLParam(r, "isbn")); err != nil {
		fail(w, r, h.Log, err, "Failed to delete book")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Book deleted successfully"})
}

// readForm accepts either a multipart form with an optional "image" file
// or a JSON body. An uploaded image replaces any imageUrl field.
func (h *BooksHandler) readForm(w http.ResponseWriter, r *http.Request) (bookForm, bool) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var body bookJSON
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return bookForm{}, false
		}
		price, err := priceText(body.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, service.ErrInvalidPrice.Msg)
			return bookForm{}, false
		}
		return bookForm{
			ISBN:     body.ISBN,
			Title:    body.Title,
			Author:   body.Author,
			Price:    price,
			ImageURL: body.ImageURL,
		}, true
	}

	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Upload exceeds %d MB", h.MaxBytes>>20))
			return bookForm{}, false
		}
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return bookForm{}, false
	}
	defer r.MultipartForm.RemoveAll()

	form := bookForm{
		ISBN:     formValue(r.MultipartForm, "isbn"),
		Title:    formValue(r.MultipartForm, "title"),
		Author:   formValue(r.MultipartForm, "author"),
		Price:    formValue(r.MultipartForm, "price"),
		ImageURL: formValue(r.MultipartForm, "imageUrl"),
	}
	name, err := h.saveImage(r)
	if err != nil {
		fail(w, r, h.Log, err, "Failed to store image")
		return bookForm{}, false
	}
	if name != "" {
		url := service.ImageURL(name)
		form.ImageURL = &url
		form.image = name
	}
	return form, true
}

// saveImage stores the "image" part, if any, and returns its stored name.
func (h *BooksHandler) saveImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", &service.Error{Kind: service.KindInvalid, Msg: "Only image files are allowed!"}
	}
	name := service.NewImageName(header.Filename)
	if err := h.Images.Save(r.Context(), name, contentType, file); err != nil {
		return "", fmt.Errorf("save image %s: %w", name, err)
	}
	h.Log.Info("stored book image", zap.String("name", name), zap.Int64("size", header.Size))
	return name, nil
}

// discardImage removes an upload whose book was rejected.
func (h *BooksHandler) discardImage(r *http.Request, name string) {
	if name == "" {
		return
	}
	if err := h.Images.Delete(r.Context(), name); err != nil {
		h.Log.Warn("discard book image", zap.String("name", name), zap.Error(err))
	}
}

func formValue(f *multipart.Form, key string) *string {
	vs, ok := f.Value[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	return &vs[0]
}

// priceText normalises a JSON price, which clients send as either a number
// or a string.
func priceText(v any) (*string, error) {
	switch p := v.(type) {
	case nil:
		return nil, nil
	case float64:
		s := strconv.FormatFloat(p, 'f', -1, 64)
		return &s, nil
	case string:
		return &p, nil
	default:
		return nil, fmt.Errorf("price has type %T", v)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
