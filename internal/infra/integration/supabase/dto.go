package supabase

type uploadResponse struct {
	Key string `json:"Key"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type UploadOutput struct {
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}
