package wmnode

import (
	"context"
	"encoding/base64"

	wa "go.mau.fi/whatsmeow"

	"github.com/Rippanteq7/whatsmeow-node/envelope"
	"github.com/Rippanteq7/whatsmeow-node/errors"
)

// mapMediaType resolves the short media type names used on the wire.
func mapMediaType(name string) (wa.MediaType, error) {
	switch name {
	case "image":
		return wa.MediaImage, nil
	case "video":
		return wa.MediaVideo, nil
	case "audio":
		return wa.MediaAudio, nil
	case "document":
		return wa.MediaDocument, nil
	case "history":
		return wa.MediaHistory, nil
	case "appstate":
		return wa.MediaAppState, nil
	case "sticker-pack":
		return wa.MediaStickerPack, nil
	case "thumbnail-link":
		return wa.MediaLinkThumbnail, nil
	default:
		return "", errors.New(errors.PhaseDispatch, errors.KindArgumentError).
			Detail("unknown media type: %s", name).Build()
	}
}

func decodeB64(method, field, value string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.New(errors.PhaseParse, errors.KindArgumentError).
			Method(method).Cause(err).Detail("invalid base64 in %s", field).Build()
	}
	return raw, nil
}

// ClientUpload encrypts and uploads a media blob, returning the upload
// descriptor (URL, path, keys, hashes) needed to build a message.
func ClientUpload(request string) string {
	var req struct {
		Client uint64 `json:"client"`
		Data   string `json:"data"`
		Type   string `json:"type"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	data, err := decodeB64("Upload", "data", req.Data)
	if err != nil {
		return envelope.Fail(err)
	}
	mt, err := mapMediaType(req.Type)
	if err != nil {
		return envelope.Fail(err)
	}
	resp, err := cli.Upload(context.Background(), data, mt)
	if err != nil {
		return envelope.Fail(errors.Native(err))
	}
	return envelope.Success(map[string]any{
		"url":             resp.URL,
		"direct_path":     resp.DirectPath,
		"handle":          resp.Handle,
		"object_id":       resp.ObjectID,
		"media_key":       base64.StdEncoding.EncodeToString(resp.MediaKey),
		"file_enc_sha256": base64.StdEncoding.EncodeToString(resp.FileEncSHA256),
		"file_sha256":     base64.StdEncoding.EncodeToString(resp.FileSHA256),
		"file_length":     resp.FileLength,
	})
}

// ClientDownloadByPath downloads and decrypts media addressed by its
// direct path plus the keys and hashes from the original message.
func ClientDownloadByPath(request string) string {
	var req struct {
		Client     uint64 `json:"client"`
		DirectPath string `json:"direct_path"`
		EncSHA256  string `json:"enc_sha256"`
		SHA256     string `json:"sha256"`
		MediaKey   string `json:"media_key"`
		FileLength int    `json:"file_length"`
		Type       string `json:"type"`
		MMSType    string `json:"mms_type"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	encSHA, err := decodeB64("DownloadMediaWithPath", "enc_sha256", req.EncSHA256)
	if err != nil {
		return envelope.Fail(err)
	}
	sha, err := decodeB64("DownloadMediaWithPath", "sha256", req.SHA256)
	if err != nil {
		return envelope.Fail(err)
	}
	mediaKey, err := decodeB64("DownloadMediaWithPath", "media_key", req.MediaKey)
	if err != nil {
		return envelope.Fail(err)
	}
	mt, err := mapMediaType(req.Type)
	if err != nil {
		return envelope.Fail(err)
	}
	data, err := cli.DownloadMediaWithPath(context.Background(), req.DirectPath, encSHA, sha, mediaKey, mt, req.MMSType, false)
	if err != nil {
		return envelope.Fail(errors.Native(err))
	}
	return envelope.Success(map[string]any{"data": base64.StdEncoding.EncodeToString(data)})
}
