package tools

import "context"

const (
	DataDownloadName = "data_download"

	downloaded    = "Data download is complete. "
	notDownloaded = "Data download did not complete. "
)

// DataDownloadTool fetches history for the configured settings and lists what is stored.
type DataDownloadTool struct {
	env         *Env
	description string
}

func NewDataDownloadTool(env *Env, description string) *DataDownloadTool {
	return &DataDownloadTool{env: env, description: description}
}

func (t *DataDownloadTool) Name() string {
	return DataDownloadName
}

func (t *DataDownloadTool) Description() string {
	return t.description
}

func (t *DataDownloadTool) ReturnDirect() bool {
	return t.env.ReturnDirect
}

func (t *DataDownloadTool) Run(ctx context.Context, _ string) (string, error) {
	if err := t.env.Session.DownloadData(ctx); err != nil {
		return t.env.failed(t.Name(), err, notDownloaded)
	}

	if _, err := t.env.Session.ListData(ctx); err != nil {
		return t.env.failed(t.Name(), err, notDownloaded)
	}

	return downloaded, nil
}
