package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/valyala/fasthttp"
)

type v1InsertParams struct {
	Key string `json:"key"`
}

type v1InsertResponse struct {
	Key    string `json:"key"`
	Status string `json:"status"`
}

type v1ExistsResponse struct {
	Key     string        `json:"key"`
	Exists  bool          `json:"exists"`
	Elapsed time.Duration `json:"elapsed"`
}

type v1DeleteResponse struct {
	Key    string `json:"key"`
	Status string `json:"status"`
}

type v1StatsResponse struct {
	Engine      string  `json:"engine"`
	Size        uint64  `json:"size"`
	SizeInBytes int     `json:"size_in_bytes"`
	BitsPerItem float64 `json:"bits_per_item"`
	IsLeader    bool    `json:"is_leader"`
}

// StartServer runs the fasthttp listener for cfg.Server, dispatching
// mutations through node so every insert/delete goes through Raft
// consensus before it is visible on any replica.
func StartServer(cfg *Config, node *RaftNode) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server at: http://%s", addr)

	requestHandler := func(ctx *fasthttp.RequestCtx) {
		if !authorized(cfg, ctx) {
			ctx.SetStatusCode(fasthttp.StatusUnauthorized)
			ctx.SetBody([]byte("invalid api key"))
			return
		}

		switch string(ctx.Path()) {
		case "/":
			homeHandler(ctx)
		case "/v1/insert":
			v1InsertHandler(ctx, node)
		case "/v1/exists":
			v1ExistsHandler(ctx, node)
		case "/v1/delete":
			v1DeleteHandler(ctx, node)
		case "/v1/stats":
			v1StatsHandler(ctx, node)
		default:
			notFoundHandler(ctx)
		}
	}

	server := &fasthttp.Server{
		Handler:     requestHandler,
		Concurrency: cfg.Server.Concurrency,
	}

	if err := server.ListenAndServe(addr); err != nil {
		log.Fatalf("Error in ListenAndServe: %s", err)
	}
}

func authorized(cfg *Config, ctx *fasthttp.RequestCtx) bool {
	if cfg.Server.APIKey == "" {
		return true
	}
	if string(ctx.Path()) == "/" {
		return true
	}
	return string(ctx.Request.Header.Peek("X-API-Key")) == cfg.Server.APIKey
}

func homeHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody([]byte("filterd is up and running"))
}

func notFoundHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusNotFound)
	ctx.SetBody([]byte("Not found"))
}

func v1InsertHandler(ctx *fasthttp.RequestCtx, node *RaftNode) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		ctx.SetBody([]byte("Method not allowed"))
		return
	}

	var body v1InsertParams
	if err := json.Unmarshal(ctx.PostBody(), &body); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBody([]byte(err.Error()))
		return
	}
	if body.Key == "" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBody([]byte("Key is required"))
		return
	}

	if err := node.Insert(body.Key); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBody([]byte(err.Error()))
		return
	}

	writeJSON(ctx, v1InsertResponse{Key: body.Key, Status: "inserted"})
}

func v1ExistsHandler(ctx *fasthttp.RequestCtx, node *RaftNode) {
	if !ctx.IsGet() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		ctx.SetBody([]byte("Method not allowed"))
		return
	}

	key := string(ctx.QueryArgs().Peek("key"))
	if key == "" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBody([]byte("Key is required"))
		return
	}

	start := time.Now()
	exists := node.engine.Lookup([]byte(key))
	writeJSON(ctx, v1ExistsResponse{Key: key, Exists: exists, Elapsed: time.Since(start)})
}

func v1DeleteHandler(ctx *fasthttp.RequestCtx, node *RaftNode) {
	if !ctx.IsPost() && !ctx.IsDelete() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		ctx.SetBody([]byte("Method not allowed"))
		return
	}

	var body v1InsertParams
	if err := json.Unmarshal(ctx.PostBody(), &body); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBody([]byte(err.Error()))
		return
	}
	if body.Key == "" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBody([]byte("Key is required"))
		return
	}

	if err := node.Delete(body.Key); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBody([]byte(err.Error()))
		return
	}

	writeJSON(ctx, v1DeleteResponse{Key: body.Key, Status: "deleted"})
}

func v1StatsHandler(ctx *fasthttp.RequestCtx, node *RaftNode) {
	writeJSON(ctx, v1StatsResponse{
		Engine:      node.config.Engine.Kind,
		Size:        node.engine.Size(),
		SizeInBytes: node.engine.SizeInBytes(),
		BitsPerItem: node.engine.BitsPerItem(),
		IsLeader:    node.IsLeader(),
	})
}

func writeJSON(ctx *fasthttp.RequestCtx, v interface{}) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBody([]byte(err.Error()))
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	ctx.SetBody(responseJSON)
}
