package services

import (
	"regexp"
	"strings"
)

type cannedReply struct {
	key    string
	answer string
}

// cannedReplies is checked in order; the first key contained in the
// lower-cased message wins.
var cannedReplies = []cannedReply{
	{"как заказать", "Чтобы сделать заказ, вы можете позвонить нам по телефону или оформить заказ онлайн через наш сайт. Мы работаем ежедневно с 10:00 до 22:00."},
	{"где находится", "Наш ресторан находится по адресу: ул. Пушкина, д. 10. Мы расположены в центре города, рядом с центральным парком."},
	{"режим работы", "Мы работаем ежедневно с 10:00 до 22:00."},
	{"доставка", "Мы осуществляем доставку по всему городу. Минимальная сумма заказа - 1000 рублей. Доставка бесплатная при заказе от 2000 рублей."},
	{"хайку", "Напишите хайку о чем угодно, и я помогу вам с этим через AI."},
}

const (
	fallbackReply = "Извините, я не понял ваш вопрос. Попробуйте спросить о том, как сделать заказ, где мы находимся или о режиме работы."
	errorReply    = "Извините, произошла ошибка."

	// QuotaMessage is shown when the AI allowance is used up.
	QuotaMessage = "У вас закончились токены. Попробуйте завтра или используйте простого помощника."

	assistantPrompt = "You are a helpful Russian restaurant assistant. Help customers with menu recommendations, cooking methods, ingredients, and general inquiries about Russian cuisine. If asked about haiku, write one in Russian. Always respond in Russian."
)

var haikuRe = regexp.MustCompile(`(?i)хайку`)

// CannedReply looks the message up in the simple bot's table.
func CannedReply(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, r := range cannedReplies {
		if strings.Contains(lower, r.key) {
			return r.answer, true
		}
	}
	return "", false
}

// aiPrompt turns a haiku request into a haiku prompt about the rest of the
// message; anything else goes through unchanged.
func aiPrompt(message string) string {
	if !haikuRe.MatchString(message) {
		return message
	}
	return "Write a haiku about " + strings.TrimSpace(haikuRe.ReplaceAllString(message, ""))
}
