package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// secretKey 是一个全局变量，用于存储服务器在启动时生成的32字节密钥。
var secretKey []byte

// SessionPayload 定义了云存档会话令牌中需要被签名的数据结构。
// 它在 /user/session 的响应中被签发，并在 /save 与 /load 请求中被验证。
type SessionPayload struct {
	UserID   string `json:"u"`
	IssuedAt int64  `json:"t"`
}

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
// 密钥只存在于进程内存中，重启后所有已签发的会话令牌自然失效。
func GenerateSecretKey() {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("HMAC密钥已成功生成。")
}

// SignSession 为一个给定的用户ID签发会话令牌。
// 令牌格式为 base64(payload) + "." + base64(HMAC-SHA256(payload))。
func SignSession(userID string) (string, error) {
	payload := SessionPayload{
		UserID:   userID,
		IssuedAt: time.Now().Unix(),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New("无法序列化会话payload")
	}

	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	signature := mac.Sum(nil)

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	encodedSignature := base64.RawURLEncoding.EncodeToString(signature)
	return encodedPayload + "." + encodedSignature, nil
}

// ValidateSession 验证一个会话令牌，并在验证通过时返回其中的用户ID。
func ValidateSession(sessionToken string) (string, bool) {
	payloadB64, signatureB64, found := splitToken(sessionToken)
	if !found {
		return "", false
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(payloadB64)
	if err != nil {
		return "", false
	}

	// 重新计算预期的签名
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	expectedSignature := mac.Sum(nil)

	actualSignature, err := base64.RawURLEncoding.DecodeString(signatureB64)
	if err != nil {
		return "", false
	}

	// 使用 hmac.Equal 进行时间恒定的比较，防止时序攻击
	if !hmac.Equal(expectedSignature, actualSignature) {
		return "", false
	}

	var payload SessionPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return "", false
	}
	if payload.UserID == "" {
		return "", false
	}
	return payload.UserID, true
}

// splitToken 将令牌拆分为payload与签名两部分。
func splitToken(sessionToken string) (payload string, signature string, ok bool) {
	for i := 0; i < len(sessionToken); i++ {
		if sessionToken[i] == '.' {
			return sessionToken[:i], sessionToken[i+1:], true
		}
	}
	return "", "", false
}
