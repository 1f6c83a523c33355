// Package server は、マップを配信するHTTPサーバーを管理します。
//
// このパッケージは、ソケットのバインド、ルーティング、
// 起動メッセージの表示、ブラウザの起動、配信ループを担当します。
//
// 責務:
//   - 固定ポートでのTCPソケットのバインド（使用中なら起動失敗）
//   - "/" をマップファイルに書き換えた静的ファイルの配信
//   - 起動メッセージの表示とデフォルトブラウザの起動
//   - シグナルを受けるまでの配信ループ
//
// 仕様:
//   - ルーティングとミドルウェアはgin-gonic/ginを使用
//   - ファイル配信はnet/httpのファイルサーバーに準拠
//   - ブラウザ起動の失敗はサーバーの動作に影響しない
//   - 複数クライアントの同時接続をサポート
package server
