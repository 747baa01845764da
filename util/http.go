package util

import (
	json "github.com/json-iterator/go"
	"net/http"
)

func HttpBadRequestError(w http.ResponseWriter, message string) {
	HttpWriteError(w, http.StatusBadRequest, message)
}

func HttpBadGatewayError(w http.ResponseWriter, message string) {
	HttpWriteError(w, http.StatusBadGateway, message)
}

// HttpWriteError writes a json error response.
func HttpWriteError(writer http.ResponseWriter, statusCode int, message string) {
	HttpWriteJson(writer, statusCode, map[string]string{"error": message})
}

// HttpWriteJson writes v as json response.
func HttpWriteJson(writer http.ResponseWriter, statusCode int, v interface{}) {
	bs, err := json.Marshal(v)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	writer.Write(bs)
}
