package models

// UploadResponse is the body returned for every upload request. The uuid,
// date and GPS fields carry `false` when absent, matching the contract the
// uploader widget expects.
type UploadResponse struct {
	Success      bool        `json:"success"`
	UUID         interface{} `json:"uuid"`
	Date         interface{} `json:"date"`
	GPSLatitude  interface{} `json:"GPSLatitude"`
	GPSLongitude interface{} `json:"GPSLongitude"`
	Error        string      `json:"error,omitempty"`
	PreventRetry bool        `json:"preventRetry,omitempty"`
}

// NewUploadResponse creates a response with every optional field absent
func NewUploadResponse() *UploadResponse {
	return &UploadResponse{
		Success:      false,
		UUID:         false,
		Date:         false,
		GPSLatitude:  false,
		GPSLongitude: false,
	}
}

// Fail marks the response as failed with a caller-visible message
func (r *UploadResponse) Fail(message string) *UploadResponse {
	r.Success = false
	r.Error = message
	return r
}

// FailTooBig marks the response as failed with retries disabled, used when
// the declared file size exceeds the configured maximum
func (r *UploadResponse) FailTooBig() *UploadResponse {
	r.Error = "Too big!"
	r.PreventRetry = true
	return r
}

// Errors
type UploadError struct {
	Message string
}

func (e UploadError) Error() string {
	return e.Message
}

var (
	ErrFileTooLarge  = UploadError{"file size exceeds maximum allowed"}
	ErrStorage       = UploadError{"problem storing the file"}
	ErrChunkList     = UploadError{"problem listing chunks"}
	ErrCombine       = UploadError{"problem combining the chunks"}
	ErrPathTraversal = UploadError{"invalid path - path traversal detected"}
)
